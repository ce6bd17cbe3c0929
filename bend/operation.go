package bend

// Operation is an undoable change produced by a committed gesture.
type Operation interface {
	Execute() error
	Undo() error
	IsNoOp() bool
}

// BendOperation replaces the bend points and hints of a connector.
type BendOperation struct {
	conn         Connection
	initial      []BendPoint
	final        []BendPoint
	initialHints Hints
	finalHints   Hints
}

// NewBendOperation returns an operation that changes the bend points of conn
// from initial to final and its hints from initialHints to finalHints.
func NewBendOperation(conn Connection, initial, final []BendPoint, initialHints, finalHints Hints) *BendOperation {
	return &BendOperation{
		conn:         conn,
		initial:      cloneBendPoints(initial),
		final:        cloneBendPoints(final),
		initialHints: initialHints.clone(),
		finalHints:   finalHints.clone(),
	}
}

func (op *BendOperation) Execute() error {
	op.conn.SetBendPoints(cloneBendPoints(op.final))
	op.conn.SetHints(op.finalHints.clone())
	return nil
}

func (op *BendOperation) Undo() error {
	op.conn.SetBendPoints(cloneBendPoints(op.initial))
	op.conn.SetHints(op.initialHints.clone())
	return nil
}

func (op *BendOperation) IsNoOp() bool {
	return sameBendPoints(op.initial, op.final) && op.initialHints.Equal(op.finalHints)
}

// Initial returns a copy of the bend points the operation restores on Undo.
func (op *BendOperation) Initial() []BendPoint {
	return cloneBendPoints(op.initial)
}

// Final returns a copy of the bend points the operation applies.
func (op *BendOperation) Final() []BendPoint {
	return cloneBendPoints(op.final)
}

// ContentOperation replaces the bend points stored in the content model.
type ContentOperation struct {
	part    ContentPart
	initial []BendPoint
	final   []BendPoint
}

func NewContentOperation(part ContentPart, initial, final []BendPoint) *ContentOperation {
	return &ContentOperation{
		part:    part,
		initial: cloneBendPoints(initial),
		final:   cloneBendPoints(final),
	}
}

func (op *ContentOperation) Execute() error {
	op.part.SetContentBendPoints(cloneBendPoints(op.final))
	return nil
}

func (op *ContentOperation) Undo() error {
	op.part.SetContentBendPoints(cloneBendPoints(op.initial))
	return nil
}

func (op *ContentOperation) IsNoOp() bool {
	return sameBendPoints(op.initial, op.final)
}

// Composite executes its operations in order and undoes them in reverse
// order.
type Composite []Operation

func (c Composite) Execute() error {
	for _, op := range c {
		if err := op.Execute(); err != nil {
			return err
		}
	}
	return nil
}

func (c Composite) Undo() error {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

func (c Composite) IsNoOp() bool {
	for _, op := range c {
		if !op.IsNoOp() {
			return false
		}
	}
	return true
}
