package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := setup("debug", "json", &buf); err != nil {
		t.Fatalf("setup error: %v", err)
	}
	defer setup("info", "text", &bytes.Buffer{})

	log.WithField("zone", "RA1").Debug("zone analyzed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["zone"] != "RA1" || entry["msg"] != "zone analyzed" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := setup("loud", "text", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
}
