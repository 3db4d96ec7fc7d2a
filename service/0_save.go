package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fulldump/apitest"
)

// ExamplesPathEnv names the directory where Save writes markdown examples.
// Nothing is written when it is empty.
const ExamplesPathEnv = "COLINDEX_API_EXAMPLES_PATH"

// Save documents an API call as a markdown file with a curl command and the
// raw HTTP exchange.
func Save(response *apitest.Response, title, description string) {

	dir := os.Getenv(ExamplesPathEnv)
	if dir == "" {
		return
	}

	request := response.Request
	query := ""
	if request.URL.RawQuery != "" {
		query = "?" + request.URL.RawQuery
	}
	requestBody := formatJSON(response.BodyRequestString())

	md := &strings.Builder{}
	fmt.Fprintf(md, "# %s\n%s\n", title, cropTabs(description))

	md.WriteString("Curl example:\n\n```sh\ncurl ")
	if request.Method != "GET" {
		md.WriteString("-X " + request.Method + " ")
	}
	fmt.Fprintf(md, "\"https://example.com%s%s\"", request.URL.Path, query)
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(md, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if requestBody != "" {
		fmt.Fprintf(md, " \\\n-d '%s'", requestBody)
	}
	md.WriteString("\n```\n\n\n")

	md.WriteString("HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(md, "%s %s%s %s\nHost: example.com\n", request.Method, request.URL.Path, query, request.Proto)
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(md, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(md, "\n%s\n\n", requestBody)

	fmt.Fprintf(md, "%s %s\n", response.Proto, response.Status)
	for _, k := range sortedKeys(response.Header) {
		if k == "Date" {
			continue // unstable
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(md, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(md, "\n%s\n```\n\n\n", formatJSON(response.BodyString()))

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	err := os.WriteFile(filepath.Join(dir, filepath.Clean(filename)), []byte(md.String()), 0666)
	if err != nil {
		fmt.Println("Saving err:", err)
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatJSON(body string) string {

	var i interface{}
	err := json.Unmarshal([]byte(body), &i)
	if err != nil {
		return body
	}

	b, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}

	return string(b)
}

// cropTabs removes the common tab indentation of a description written as a
// raw string inside indented test code.
func cropTabs(d string) string {

	lines := strings.Split(d, "\n")

	minTabs := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tabs := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || tabs < minTabs {
			minTabs = tabs
		}
	}
	if minTabs <= 0 {
		return strings.TrimSpace(d)
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
