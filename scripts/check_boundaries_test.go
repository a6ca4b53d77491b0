package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testPrefix = modulePath + "/contexts/crm/task-comments-service"

func writeSource(t *testing.T, imports ...string) string {
	t.Helper()
	src := "package x\n\nimport (\n"
	for _, imp := range imports {
		src += "\t\"" + imp + "\"\n"
	}
	src += ")\n"
	path := filepath.Join(t.TempDir(), "x.go")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestDomainMayOnlyImportDomain(t *testing.T) {
	path := writeSource(t, "strings", testPrefix+"/domain/errors")
	if got := validateFile(path, path, "domain", testPrefix); len(got) != 0 {
		t.Fatalf("expected no violations, got %+v", got)
	}

	path = writeSource(t, testPrefix+"/ports", "gorm.io/gorm")
	if got := validateFile(path, path, "domain", testPrefix); len(got) != 2 {
		t.Fatalf("expected two violations, got %+v", got)
	}
}

func TestApplicationMustNotImportAdapters(t *testing.T) {
	path := writeSource(t, testPrefix+"/adapters/memory", modulePath+"/internal/platform/db")
	got := validateFile(path, path, "application", testPrefix)
	if len(got) < 2 {
		t.Fatalf("expected adapter and infrastructure violations, got %+v", got)
	}
}

func TestTransportMustNotImportApplication(t *testing.T) {
	path := writeSource(t, testPrefix+"/application/commands", "github.com/google/uuid")
	got := validateFile(path, path, "transport", testPrefix)
	if len(got) != 1 {
		t.Fatalf("expected one violation, got %+v", got)
	}
}

func TestCrossModuleImportsAreForbidden(t *testing.T) {
	path := writeSource(t, modulePath+"/contexts/other/service/domain")
	got := validateFile(path, path, "adapters", testPrefix)
	if len(got) != 1 || got[0].Rule != "cross-module imports are forbidden" {
		t.Fatalf("expected cross-module violation, got %+v", got)
	}
}
