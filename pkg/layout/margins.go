package layout

// collapseMargins returns the top margin that remains once a box's top
// margin has collapsed with the bottom margin of the in-flow sibling above
// it. Only that sibling is considered; parent/child margins and margins of
// empty boxes do not collapse.
func collapseMargins(prevBottom, top Au) Au {
	if prevBottom >= top {
		return 0
	}
	return top - prevBottom
}
