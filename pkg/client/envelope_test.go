package client

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		status          int
		expectedMessage string
		expectedCode    string
		expectedRaw     string
	}{
		{
			name:            "backend envelope",
			body:            `{"success":false,"error":"User not found","timestamp":"2024-01-01T00:00:00Z"}`,
			status:          404,
			expectedMessage: "User not found",
		},
		{
			name:            "message only",
			body:            `{"message":"Rate limited","code":429}`,
			status:          429,
			expectedMessage: "Rate limited",
			expectedCode:    "429",
		},
		{
			name:            "nested error object",
			body:            `{"error":{"message":"bad signature","code":"AUTH_FAILED"}}`,
			status:          401,
			expectedMessage: "bad signature",
			expectedCode:    "AUTH_FAILED",
		},
		{
			name:            "json string",
			body:            `"maintenance"`,
			status:          503,
			expectedMessage: "maintenance",
		},
		{
			name:            "empty body",
			body:            "",
			status:          500,
			expectedMessage: "request failed with status 500",
		},
		{
			name:            "html from proxy",
			body:            "<html>Bad Gateway</html>",
			status:          502,
			expectedMessage: "request failed with status 502",
			expectedRaw:     "<html>Bad Gateway</html>",
		},
		{
			name:            "unknown fields ignored",
			body:            `{"foo":1,"bar":[1,2]}`,
			status:          400,
			expectedMessage: "request failed with status 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eb := decodeError([]byte(tt.body), tt.status)
			if eb.Message() != tt.expectedMessage {
				t.Errorf("Expected message %q, got %q", tt.expectedMessage, eb.Message())
			}
			if eb.Code != tt.expectedCode {
				t.Errorf("Expected code %q, got %q", tt.expectedCode, eb.Code)
			}
			if eb.Raw != tt.expectedRaw {
				t.Errorf("Expected raw %q, got %q", tt.expectedRaw, eb.Raw)
			}
		})
	}
}

func TestDecodeErrorTruncatesRaw(t *testing.T) {
	eb := decodeError([]byte(strings.Repeat("x", 4096)), 502)
	if len(eb.Raw) != maxRawErrorBody {
		t.Errorf("Expected raw length %d, got %d", maxRawErrorBody, len(eb.Raw))
	}
}

func TestDecodeErrorSuccessFlag(t *testing.T) {
	eb := decodeError([]byte(`{"success":false,"error":"x"}`), 400)
	if eb.Success == nil || *eb.Success {
		t.Errorf("Expected success=false, got %v", eb.Success)
	}
}

type point struct {
	Total int `json:"total"`
}

func TestDecodeData(t *testing.T) {
	t.Run("backend envelope unwrapped", func(t *testing.T) {
		v, _, err := decodeData[point]([]byte(`{"success":true,"data":{"total":7},"timestamp":"t"}`))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v.Total != 7 {
			t.Errorf("Expected 7, got %d", v.Total)
		}
	})

	t.Run("plain object", func(t *testing.T) {
		v, _, err := decodeData[point]([]byte(`{"total":3}`))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v.Total != 3 {
			t.Errorf("Expected 3, got %d", v.Total)
		}
	})

	t.Run("object with success among other fields is not unwrapped", func(t *testing.T) {
		type result struct {
			Success bool `json:"success"`
			Total   int  `json:"total"`
		}
		v, _, err := decodeData[result]([]byte(`{"success":true,"total":4}`))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !v.Success || v.Total != 4 {
			t.Errorf("Expected whole body decoded, got %+v", v)
		}
	})

	t.Run("null data", func(t *testing.T) {
		v, _, err := decodeData[point]([]byte(`{"success":true,"data":null}`))
		if err != nil || v.Total != 0 {
			t.Errorf("Expected zero value, got %+v err=%v", v, err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		if _, _, err := decodeData[point](nil); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("plain text into string", func(t *testing.T) {
		v, _, err := decodeData[string]([]byte("pong"))
		if err != nil || v != "pong" {
			t.Errorf("Expected %q, got %q err=%v", "pong", v, err)
		}
	})

	t.Run("raw message keeps data member", func(t *testing.T) {
		v, _, err := decodeData[json.RawMessage]([]byte(`{"success":true,"data":[1,2]}`))
		if err != nil || string(v) != "[1,2]" {
			t.Errorf("Expected [1,2], got %s err=%v", v, err)
		}
	})

	t.Run("backend failure reported", func(t *testing.T) {
		v, failure, err := decodeData[point]([]byte(`{"success":false,"error":"Referral code invalid","code":"BAD_REFERRAL"}`))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if failure == nil {
			t.Fatal("Expected backend failure")
		}
		if failure.Message() != "Referral code invalid" || failure.Code != "BAD_REFERRAL" {
			t.Errorf("Expected decoded failure, got %+v", failure)
		}
		if v.Total != 0 {
			t.Errorf("Expected zero value, got %+v", v)
		}
	})

	t.Run("success true has no failure", func(t *testing.T) {
		_, failure, _ := decodeData[point]([]byte(`{"success":true,"data":{"total":1}}`))
		if failure != nil {
			t.Errorf("Expected no failure, got %+v", failure)
		}
	})

	t.Run("mismatched type", func(t *testing.T) {
		if _, _, err := decodeData[point]([]byte(`[1,2,3]`)); err == nil {
			t.Error("Expected decode error")
		}
	})
}
