package domain

// Dependency represents a dependency edge between tasks.
// The parent task depends on the child task: the parent cannot be worked on
// until the child is closed.
type Dependency struct {
	ParentID TaskID `json:"parent_id" yaml:"parent_id"`
	ChildID  TaskID `json:"child_id" yaml:"child_id"`
}

// NewDependency creates a new dependency relationship.
func NewDependency(parentID, childID TaskID) Dependency {
	return Dependency{
		ParentID: parentID,
		ChildID:  childID,
	}
}
