package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decodeData(body []byte) map[string]interface{} {
	var envelope map[string]interface{}
	json.Unmarshal(body, &envelope)
	if data, ok := envelope["data"].(map[string]interface{}); ok {
		return data
	}
	return map[string]interface{}{}
}

func main() {
	color.Cyan("🚀 Starting Workspace API Test\n")

	// 1. Initialize Session
	color.Yellow("\n[SESSION] 1. Initialize")
	resp, body, err := sendRequest("POST", "/session/v1/initialize", "", map[string]interface{}{})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	data := decodeData(body)
	prettyPrint(data)

	token, _ := data["token"].(string)
	if token == "" {
		color.Red("No token in initialize response")
		os.Exit(1)
	}

	// 2. Initialize again with the token (must return the same session)
	color.Yellow("\n[SESSION] 2. Initialize (idempotent)")
	resp, body, err = sendRequest("POST", "/session/v1/initialize", token, map[string]interface{}{})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	repeat := decodeData(body)
	if repeat["session_id"] != data["session_id"] {
		color.Red("Initialize is not idempotent: %v != %v", repeat["session_id"], data["session_id"])
		os.Exit(1)
	}
	color.Green("Same session: %v", repeat["session_id"])

	// 3. Save a chat exchange
	color.Yellow("\n[EXPORT] 3. Save Output (history)")
	resp, body, err = sendRequest("POST", "/export/v1/outputs", token, map[string]interface{}{
		"target":       "history",
		"user_request": "What closed highest today?",
		"response":     "AAPL closed highest at 233.12.",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decodeData(body))

	// 4. Save a tabular result
	color.Yellow("\n[EXPORT] 4. Save Output (stock_query table)")
	resp, body, err = sendRequest("POST", "/export/v1/outputs", token, map[string]interface{}{
		"target": "stock_query",
		"response": []map[string]interface{}{
			{"symbol": "AAPL", "close": 233.12},
			{"symbol": "GOOG", "close": 178},
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decodeData(body))

	// 5. Browse the cache root
	color.Yellow("\n[WORKSPACE] 5. Browse")
	resp, body, err = sendRequest("GET", "/workspace/v1/browse", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decodeData(body))

	// 6. Download the history file
	color.Yellow("\n[EXPORT] 6. Download chat_history.txt")
	resp, body, err = sendRequest("GET", "/export/v1/download?path=chat_history.txt", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s (%d bytes, %s)", resp.Status, len(body), resp.Header.Get("Content-Type"))

	// 7. Schedule a deletion
	color.Yellow("\n[WORKSPACE] 7. Schedule Deletion (60 min)")
	resp, body, err = sendRequest("POST", "/workspace/v1/deletion-jobs", token, map[string]interface{}{
		"delay_minutes": 60,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	job := decodeData(body)
	prettyPrint(job)

	// 8. List jobs
	color.Yellow("\n[WORKSPACE] 8. List Deletion Jobs")
	resp, body, err = sendRequest("GET", "/workspace/v1/deletion-jobs", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var jobsEnvelope map[string]interface{}
	json.Unmarshal(body, &jobsEnvelope)
	prettyPrint(jobsEnvelope["data"])

	// 9. Cancel the deletion
	color.Yellow("\n[WORKSPACE] 9. Cancel Deletion")
	resp, _, err = sendRequest("POST", "/workspace/v1/deletion-jobs/cancel", token, map[string]interface{}{
		"path": job["path"],
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 10. Submit EDGAR details
	color.Yellow("\n[SESSION] 10. Submit EDGAR Details")
	resp, _, err = sendRequest("POST", "/session/v1/edgar-details", token, map[string]interface{}{
		"organization": "Example Research",
		"email":        "research@example.com",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 11. Clear the cache, keep the root
	color.Yellow("\n[WORKSPACE] 11. Clear Cache")
	resp, _, err = sendRequest("POST", "/workspace/v1/clear-cache", token, map[string]interface{}{
		"delete_root": false,
		"verbose":     true,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 12. Close the session
	color.Yellow("\n[SESSION] 12. Close")
	resp, _, err = sendRequest("POST", "/session/v1/close", token, map[string]interface{}{
		"delete_root": true,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	color.Cyan("\n✅ Workspace API test finished")
}
