package ipc

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"GET_STATUS"}` + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Command != CommandGetStatus {
		t.Fatalf("expected GET_STATUS, got %q", req.Command)
	}
}

func TestParseRequestRejectsMissingCommand(t *testing.T) {
	if _, err := ParseRequest([]byte(`{}`)); err == nil {
		t.Fatal("expected error for missing command")
	}
	if _, err := ParseRequest([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestOKResponseRoundTrip(t *testing.T) {
	resp, err := NewOKResponse(DisplaysData{Displays: []DisplayInfo{
		{ID: 0, Name: "eDP-1", Width: 1920, Height: 1200},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line, err := marshalResponse(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line[len(line)-1] != '\n' {
		t.Fatal("expected newline-terminated response")
	}

	var decoded Response
	if err := json.Unmarshal(line, &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if decoded.Status != "OK" {
		t.Fatalf("expected OK status, got %q", decoded.Status)
	}

	var data DisplaysData
	if err := json.Unmarshal(decoded.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(data.Displays) != 1 || data.Displays[0].Name != "eDP-1" {
		t.Fatalf("unexpected displays payload: %+v", data)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse(errTest)
	if resp.Status != "ERROR" || resp.Error != "boom" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}

type testError struct{}

func (testError) Error() string { return "boom" }

var errTest = testError{}
