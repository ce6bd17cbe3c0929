package bend

import (
	"errors"
	"testing"
)

type recordingOp struct {
	name string
	log  *[]string
	noop bool
	err  error
}

func (o *recordingOp) Execute() error {
	*o.log = append(*o.log, "exec "+o.name)
	return o.err
}

func (o *recordingOp) Undo() error {
	*o.log = append(*o.log, "undo "+o.name)
	return o.err
}

func (o *recordingOp) IsNoOp() bool {
	return o.noop
}

func TestCompositeOrder(t *testing.T) {
	var log []string
	c := Composite{
		&recordingOp{name: "a", log: &log},
		&recordingOp{name: "b", log: &log},
	}
	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if err := c.Undo(); err != nil {
		t.Fatal(err)
	}
	want := []string{"exec a", "exec b", "undo b", "undo a"}
	if len(log) != len(want) {
		t.Fatalf("got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("step %d: got %q, want %q", i, log[i], want[i])
		}
	}
}

func TestCompositeStopsOnError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	c := Composite{
		&recordingOp{name: "a", log: &log, err: boom},
		&recordingOp{name: "b", log: &log},
	}
	if err := c.Execute(); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if len(log) != 1 {
		t.Errorf("second child ran after an error: %v", log)
	}
}

func TestCompositeIsNoOp(t *testing.T) {
	var log []string
	quiet := Composite{
		&recordingOp{name: "a", log: &log, noop: true},
		&recordingOp{name: "b", log: &log, noop: true},
	}
	if !quiet.IsNoOp() {
		t.Errorf("composite of no-ops should be a no-op")
	}
	loud := Composite{
		&recordingOp{name: "a", log: &log, noop: true},
		&recordingOp{name: "b", log: &log},
	}
	if loud.IsNoOp() {
		t.Errorf("composite with a change reported as no-op")
	}
}
