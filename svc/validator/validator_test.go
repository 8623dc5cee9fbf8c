package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loadrig/loadctrl/svc/types"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("contents"), 0644); err != nil {
		t.Fatalf("setup failed, could not write %v: %v", name, err)
	}
	return path
}

func TestValidatorValidate(t *testing.T) {
	dir := t.TempDir()
	planPath := writeFile(t, dir, "spike.jmx")
	propsPath := writeFile(t, dir, "user.properties")

	cases := []struct {
		description string
		session     func() *types.Session
		shouldError bool
	}{
		{
			description: "valid minimal session",
			session: func() *types.Session {
				return types.NewSession("perf", types.NewTestPlan(planPath), types.Options{})
			},
			shouldError: false,
		},
		{
			description: "missing tenant",
			session: func() *types.Session {
				return types.NewSession("", types.NewTestPlan(planPath), types.Options{})
			},
			shouldError: true,
		},
		{
			description: "missing test plan path",
			session: func() *types.Session {
				return types.NewSession("perf", types.NewTestPlan(""), types.Options{})
			},
			shouldError: true,
		},
		{
			description: "test plan does not exist",
			session: func() *types.Session {
				return types.NewSession("perf", types.NewTestPlan(filepath.Join(dir, "missing.jmx")), types.Options{})
			},
			shouldError: true,
		},
		{
			description: "test plan is a directory",
			session: func() *types.Session {
				return types.NewSession("perf", types.NewTestPlan(dir), types.Options{})
			},
			shouldError: true,
		},
		{
			description: "user properties present",
			session: func() *types.Session {
				return types.NewSession("perf", types.NewTestPlan(planPath), types.Options{
					UserPropertiesPath: propsPath,
				})
			},
			shouldError: false,
		},
		{
			description: "user properties missing",
			session: func() *types.Session {
				return types.NewSession("perf", types.NewTestPlan(planPath), types.Options{
					UserPropertiesPath: filepath.Join(dir, "missing.properties"),
				})
			},
			shouldError: true,
		},
		{
			description: "seed script missing",
			session: func() *types.Session {
				return types.NewSession("perf", types.NewTestPlan(planPath), types.Options{
					SeedScriptPath: filepath.Join(dir, "missing-seed.txt"),
				})
			},
			shouldError: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			validator := &Validator{}

			err := validator.Validate(tc.session())
			if tc.shouldError && err == nil {
				t.Fatal("did not error")
			} else if !tc.shouldError && err != nil {
				t.Fatalf("returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidatorNilSession(t *testing.T) {
	validator := &Validator{}
	if err := validator.Validate(nil); err == nil {
		t.Fatal("did not error for nil session")
	}
}
