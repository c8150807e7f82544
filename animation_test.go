package vinemotion

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestTweenReachesTarget(t *testing.T) {
	var got float64
	tw := NewTween(10, 100, time.Second, ease.Linear, func(v float64) { got = v })

	// Exact halves avoid float32 accumulation drift.
	if tw.Update(500 * time.Millisecond) {
		t.Fatal("tween finished at half time")
	}
	if math.Abs(got-55) > 0.5 {
		t.Errorf("value at half time = %v, want ~55", got)
	}
	if !tw.Update(500 * time.Millisecond) {
		t.Fatal("tween not finished after full duration")
	}
	if !tw.Done() || math.Abs(got-100) > 0.5 {
		t.Errorf("Done = %v, value = %v; want true, ~100", tw.Done(), got)
	}
}

func TestTweenNilEaseAndApply(t *testing.T) {
	tw := NewTween(0, 1, 100*time.Millisecond, nil, nil)
	if !tw.Update(200 * time.Millisecond) {
		t.Error("tween with nil ease and apply did not finish")
	}
	if !tw.Update(frame60) {
		t.Error("finished tween reported not done")
	}
}

func TestParallelDoneWhenAllDone(t *testing.T) {
	short := Wait(100 * time.Millisecond)
	long := Wait(300 * time.Millisecond)
	g := Parallel(short, nil, long)

	if g.Update(200 * time.Millisecond) {
		t.Fatal("group done before its longest member")
	}
	if !g.Update(100 * time.Millisecond) {
		t.Fatal("group not done after its longest member")
	}
	if !g.Done {
		t.Error("Done = false")
	}
}

func TestParallelSkipsFinishedMembers(t *testing.T) {
	calls := 0
	instant := AnimationFunc(func(time.Duration) bool {
		calls++
		return true
	})
	g := Parallel(instant, Wait(time.Second))
	for i := 0; i < 5; i++ {
		g.Update(frame60)
	}
	if calls != 1 {
		t.Errorf("finished member updated %d times, want 1", calls)
	}
}

func TestSequentialRunsInOrder(t *testing.T) {
	var order []string
	step := func(name string, d time.Duration) Animation {
		var elapsed time.Duration
		return AnimationFunc(func(dt time.Duration) bool {
			if elapsed == 0 {
				order = append(order, name)
			}
			elapsed += dt
			return elapsed >= d
		})
	}
	s := Sequential(step("fade", 32*time.Millisecond), nil, step("slide", 16*time.Millisecond))

	frames := 0
	for !s.Update(frame60) {
		frames++
		if frames > 10 {
			t.Fatal("sequence never finished")
		}
	}
	if len(order) != 2 || order[0] != "fade" || order[1] != "slide" {
		t.Errorf("order = %v, want [fade slide]", order)
	}
	if frames != 2 {
		t.Errorf("unfinished frames = %d, want 2", frames)
	}
}

func TestEmptySequenceIsDone(t *testing.T) {
	if !Sequential().Update(frame60) {
		t.Error("empty sequence not done")
	}
	if !Parallel().Update(frame60) {
		t.Error("empty group not done")
	}
}

func TestTweenAlpha(t *testing.T) {
	alpha := 1.0
	tw := TweenAlpha(&alpha, 0, 200*time.Millisecond, ease.Linear)
	tw.Update(100 * time.Millisecond)
	if math.Abs(alpha-0.5) > 0.01 {
		t.Errorf("alpha at half time = %v, want ~0.5", alpha)
	}
	tw.Update(100 * time.Millisecond)
	if math.Abs(alpha) > 0.01 {
		t.Errorf("alpha = %v, want ~0", alpha)
	}
}

func TestTweenOffset(t *testing.T) {
	v := Vec2{X: 0, Y: 40}
	g := TweenOffset(&v, Vec2{X: 20, Y: 0}, 500*time.Millisecond, ease.OutCubic)
	g.Update(250 * time.Millisecond)
	g.Update(250 * time.Millisecond)
	if !g.Done {
		t.Fatal("offset tween not done")
	}
	if math.Abs(v.X-20) > 0.5 || math.Abs(v.Y) > 0.5 {
		t.Errorf("offset = %v, want ~(20, 0)", v)
	}
}
