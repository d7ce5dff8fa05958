package entity

// CheckGroup is a run of document pages believed to belong to one physical
// check/remittance unit. CheckNumber is the normalized check number shared by
// the group's numbered pages; nil means no check number was detected on any
// page of the group. Pages holds original page indices in input order.
// Groups are never mutated after the grouper finalizes them.
type CheckGroup struct {
	CheckNumber *string
	Pages       []int
	Record      ExtractedRecord
}
