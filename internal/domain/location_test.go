package domain

import (
	"errors"
	"testing"
)

func TestNewLocation(t *testing.T) {
	a := NewLocation(33.68, -117.82, "1 Main St", "Home", "")
	b := NewLocation(33.68, -117.82, "1 Main St", "Home", "")

	if a.PropertyType != DefaultPropertyType {
		t.Fatalf("property type = %q, want %q", a.PropertyType, DefaultPropertyType)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}

	c := NewLocation(0, 0, "x", "x", "Commercial")
	if c.PropertyType != "Commercial" {
		t.Fatalf("property type = %q, want Commercial", c.PropertyType)
	}
}

func TestDistanceModeToggle(t *testing.T) {
	if Routed.Toggle() != Direct {
		t.Fatalf("Routed.Toggle() = %v, want direct", Routed.Toggle())
	}
	if Direct.Toggle().Toggle() != Direct {
		t.Fatal("toggling twice should return the original mode")
	}
}

func TestParseDistanceMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DistanceMode
		wantErr bool
	}{
		{"routed", Routed, false},
		{" Direct ", Direct, false},
		{"straight-line", Direct, false},
		{"driving", Routed, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDistanceMode(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("mode = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolutionErrorIs(t *testing.T) {
	var err error = &ResolutionError{Address: "nowhere"}
	if !errors.Is(err, ErrResolution) {
		t.Fatal("expected ResolutionError to match ErrResolution")
	}

	cause := errors.New("status 503")
	err = &ResolutionError{Address: "nowhere", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected ResolutionError to unwrap its cause")
	}
}

func TestRouteResultHasGeometry(t *testing.T) {
	var r RouteResult
	if r.HasGeometry() {
		t.Fatal("zero RouteResult should have no geometry")
	}
}
