package apperr

import (
	"fmt"
	"testing"
)

func TestPredicatesMatchThroughWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{name: "validation", err: NewValidation("name", "must not be empty"), pred: IsValidation},
		{name: "not_eligible", err: NewNotEligible("requirement", "does not apply"), pred: IsNotEligible},
		{name: "invalid_transition", err: NewInvalidTransition("release", "passed", "viewed"), pred: IsInvalidTransition},
		{name: "not_found", err: NewNotFound("deal", "d-1"), pred: IsNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.pred(tc.err) {
				t.Fatalf("predicate rejected %v", tc.err)
			}
			wrapped := fmt.Errorf("load release: %w", tc.err)
			if !tc.pred(wrapped) {
				t.Fatalf("predicate rejected wrapped %v", wrapped)
			}
			for _, other := range cases {
				if other.name == tc.name {
					continue
				}
				if other.pred(tc.err) {
					t.Fatalf("%s predicate matched %s error", other.name, tc.name)
				}
			}
		})
	}
}
