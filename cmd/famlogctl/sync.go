package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

func runSyncNow(apiURL string, out io.Writer) error {
	return postAndPrint(apiURL+"/api/sync/run", out)
}

func runStatus(apiURL string, out io.Writer) error {
	return getAndPrint(apiURL+"/api/sync/status", out)
}

func runCleanup(apiURL string, out io.Writer) error {
	return postAndPrint(apiURL+"/api/sync/cleanup-duplicates", out)
}

func runListProfiles(apiURL string, out io.Writer) error {
	return getAndPrint(apiURL+"/api/profiles", out)
}

func postAndPrint(url string, out io.Writer) error {
	resp, err := http.Post(url, "application/json", strings.NewReader("{}"))
	if err != nil {
		return err
	}
	return printResponse(resp, out)
}

func getAndPrint(url string, out io.Writer) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	return printResponse(resp, out)
}

func printResponse(resp *http.Response, out io.Writer) error {
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err := io.Copy(out, resp.Body)
	return err
}
