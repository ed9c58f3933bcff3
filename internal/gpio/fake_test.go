package gpio

import (
	"errors"
	"testing"
)

func TestFakeGatewayValue(t *testing.T) {
	f := NewFakeGateway(true, false, true)
	if err := f.Export(SwitchPin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []bool{true, false, true, true} // last value repeats
	for i, w := range want {
		v, err := f.Value(SwitchPin)
		if err != nil {
			t.Fatalf("value %d: unexpected error: %v", i, err)
		}
		if v != w {
			t.Errorf("value %d: expected %v, got %v", i, w, v)
		}
	}
}

func TestFakeGatewayNoValues(t *testing.T) {
	f := NewFakeGateway()
	f.Export(SwitchPin)

	if _, err := f.Value(SwitchPin); err == nil {
		t.Error("expected error with no values")
	}
}

func TestFakeGatewayValueNotExported(t *testing.T) {
	f := NewFakeGateway(true)

	_, err := f.Value(SwitchPin)
	var ne ErrNotExported
	if !errors.As(err, &ne) {
		t.Fatalf("expected ErrNotExported, got %v", err)
	}
	if ne.Pin != SwitchPin {
		t.Errorf("pin: got %v, want %v", ne.Pin, SwitchPin)
	}
}

func TestFakeGatewayExportError(t *testing.T) {
	f := NewFakeGateway(true)
	f.ExportError = errors.New("simulated error")

	if err := f.Export(SwitchPin); err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if f.Exported[SwitchPin] {
		t.Error("pin should not be exported after a failed export")
	}
}

func TestFakeGatewayLifecycle(t *testing.T) {
	f := NewFakeGateway(false)

	if err := f.Export(SwitchPin); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := f.SetDirection(SwitchPin, In); err != nil {
		t.Fatalf("direction: %v", err)
	}
	if f.Directions[SwitchPin] != In {
		t.Errorf("direction: got %v, want in", f.Directions[SwitchPin])
	}
	if err := f.Unexport(SwitchPin); err != nil {
		t.Fatalf("unexport: %v", err)
	}
	if err := f.Unexport(SwitchPin); err == nil {
		t.Error("expected error unexporting a released pin")
	}

	want := []string{"export GPIO2", "direction GPIO2 in", "unexport GPIO2", "unexport GPIO2"}
	if len(f.Calls) != len(want) {
		t.Fatalf("calls: got %v, want %v", f.Calls, want)
	}
	for i := range want {
		if f.Calls[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, f.Calls[i], want[i])
		}
	}
	if f.Unexports() != 2 {
		t.Errorf("Unexports: got %d, want 2", f.Unexports())
	}
}

func TestFakeGatewayReset(t *testing.T) {
	f := NewFakeGateway(true, false)
	f.Export(SwitchPin)
	f.Value(SwitchPin)
	f.Close()

	f.Reset()

	if f.Closed || len(f.Calls) != 0 || f.Exported[SwitchPin] {
		t.Error("reset should clear recorded state")
	}
	f.Export(SwitchPin)
	if v, _ := f.Value(SwitchPin); v != true {
		t.Errorf("after reset: expected true, got %v", v)
	}
}

func TestPinString(t *testing.T) {
	if got := SwitchPin.String(); got != "GPIO2" {
		t.Errorf("SwitchPin: got %q, want GPIO2", got)
	}
	if got := Pin(17).String(); got != "GPIO17" {
		t.Errorf("Pin(17): got %q, want GPIO17", got)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("sysfs", ""); err == nil {
		t.Error("expected error for unknown backend")
	}
}
