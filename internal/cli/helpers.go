package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coinkeep/coinkeep/internal/daemon"
)

// apiURL builds a control API URL from the configured host and port.
func apiURL(path string) (string, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s:%d%s", cfg.API.Host, cfg.API.Port, path), nil
}

var apiClient = &http.Client{Timeout: 10 * time.Second}

// apiDo performs an API request and decodes the JSON response into out
// (skipped when out is nil).
func apiDo(method, path string, body, out any) error {
	url, err := apiURL(path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("is the engine running? (coinkeep serve): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("engine: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("engine returned %s", resp.Status)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// lockStatus mirrors applock.Status on the wire.
type lockStatus struct {
	Locked               bool   `json:"locked"`
	ShouldShowLockScreen bool   `json:"should_show_lock_screen"`
	SessionID            string `json:"session_id"`
	LastActivityAt       string `json:"last_activity_at"`
}

func printLockStatus(st lockStatus) {
	state := "unlocked"
	if st.Locked {
		state = "locked"
	}
	fmt.Printf("Lock state:   %s\n", state)
	fmt.Printf("Show screen:  %t\n", st.ShouldShowLockScreen)
	if st.SessionID != "" {
		fmt.Printf("Session:      %s\n", st.SessionID)
	}
}
