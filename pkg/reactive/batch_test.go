package reactive

import "testing"

func TestBatchSingleEffectRun(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	runs := 0

	CreateEffect(func() Cleanup {
		_ = a.Get()
		_ = b.Get()
		runs++
		return nil
	})

	Batch(func() {
		a.Set(1)
		b.Set(2)
		a.Set(3)
	})

	if runs != 2 {
		t.Errorf("expected a single re-run after batch, ran %d times", runs)
	}
}

func TestBatchNested(t *testing.T) {
	a := NewSignal(0)
	runs := 0

	CreateEffect(func() Cleanup {
		_ = a.Get()
		runs++
		return nil
	})

	Batch(func() {
		Batch(func() {
			a.Set(1)
		})
		if runs != 1 {
			t.Errorf("inner batch should not flush, ran %d times", runs)
		}
		a.Set(2)
	})

	if runs != 2 {
		t.Errorf("expected one re-run after outer batch, ran %d times", runs)
	}
}

func TestOnSettledRunsAfterEffects(t *testing.T) {
	a := NewSignal(0)
	var order []string

	CreateEffect(func() Cleanup {
		if a.Get() > 0 {
			order = append(order, "effect")
		}
		return nil
	})

	Batch(func() {
		OnSettled(func() { order = append(order, "settled") })
		a.Set(1)
	})

	if len(order) != 2 || order[0] != "effect" || order[1] != "settled" {
		t.Errorf("expected [effect settled], got %v", order)
	}
}

func TestOnSettledOutsidePassRunsImmediately(t *testing.T) {
	ran := false
	OnSettled(func() { ran = true })
	if !ran {
		t.Error("expected settle callback to run immediately outside a pass")
	}
}

func TestOnSettledWritesExtendPass(t *testing.T) {
	committed := NewSignal("")
	var seen []string

	CreateEffect(func() Cleanup {
		seen = append(seen, committed.Get())
		return nil
	})

	Batch(func() {
		OnSettled(func() { committed.Set("/done") })
	})

	if got := seen[len(seen)-1]; got != "/done" {
		t.Errorf("expected effect to observe settle write before Batch returns, got %q", got)
	}
}

func TestInPass(t *testing.T) {
	if InPass() {
		t.Error("expected no pass at top level")
	}
	Batch(func() {
		if !InPass() {
			t.Error("expected pass inside Batch")
		}
	})
}
