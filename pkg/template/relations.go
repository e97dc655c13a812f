package template

// Siblings returns the fixed two-sibling set for a template id, used by
// the prompt assembler to pull few-shot examples from related templates.
// The relation is same-category-first, falling back to the next two
// catalog entries by id if the category has fewer than two other members.
func Siblings(id int) []int {
	c := Load()
	def, ok := c.ByID(id)
	if !ok {
		return nil
	}

	var sameCategory, rest []int
	for _, d := range c.Definitions {
		if d.ID == id {
			continue
		}
		if d.Category == def.Category {
			sameCategory = append(sameCategory, d.ID)
		} else {
			rest = append(rest, d.ID)
		}
	}

	out := append([]int{}, sameCategory...)
	for _, id := range rest {
		if len(out) >= 2 {
			break
		}
		out = append(out, id)
	}
	if len(out) > 2 {
		out = out[:2]
	}
	return out
}
