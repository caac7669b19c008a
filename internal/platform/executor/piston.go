// Package executor speaks HTTP to a Piston-compatible code execution service.
// It is the only collaborator that runs candidate code; compile/run timeouts
// are its concern, not the grading pipeline's.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"code_arena/internal/common"
	"code_arena/internal/domain/model"
	"code_arena/internal/judge"
)

type runtimeSpec struct {
	Language string
	Version  string
	FileName string
}

// Maps our language tags onto Piston runtimes.
var runtimes = map[string]runtimeSpec{
	model.LangJavaScript: {Language: "javascript", Version: "18.15.0", FileName: "main.js"},
	model.LangPython:     {Language: "python", Version: "3.10.0", FileName: "main.py"},
	model.LangJava:       {Language: "java", Version: "15.0.2", FileName: "Main.java"},
	model.LangCpp:        {Language: "cpp", Version: "10.2.0", FileName: "main.cpp"},
	model.LangGo:         {Language: "go", Version: "1.16.2", FileName: "main.go"},
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
	Stdin    string        `json:"stdin"`
}

type executeFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type stageResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   int    `json:"code"`
}

type executeResponse struct {
	Compile *stageResult `json:"compile,omitempty"`
	Run     *stageResult `json:"run"`
}

// Execute runs the candidate source against one stdin payload. Transport
// failures and malformed replies surface as errors wrapping
// common.ErrServiceUnavailable; they are the executor's fault, never the
// submitter's.
func (c *Client) Execute(ctx context.Context, language, source, stdin string) (*judge.ExecResult, error) {
	rt, ok := runtimes[language]
	if !ok {
		return nil, common.Errorf("no runtime for language %q: %w", language, common.ErrBadRequest)
	}

	payload := executeRequest{
		Language: rt.Language,
		Version:  rt.Version,
		Files:    []executeFile{{Name: rt.FileName, Content: source}},
		Stdin:    stdin,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal executor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build executor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, common.Errorf("executor unreachable: %v: %w", err, common.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, common.Errorf("executor returned status %d: %w", resp.StatusCode, common.ErrServiceUnavailable)
	}

	var out executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, common.Errorf("malformed executor reply: %v: %w", err, common.ErrServiceUnavailable)
	}
	if out.Run == nil && (out.Compile == nil || out.Compile.Code == 0) {
		return nil, common.Errorf("executor reply missing run stage: %w", common.ErrServiceUnavailable)
	}

	result := &judge.ExecResult{}
	if out.Compile != nil && out.Compile.Code != 0 {
		result.CompileFailed = true
		result.CompileMessage = out.Compile.Stderr
		if result.CompileMessage == "" {
			result.CompileMessage = out.Compile.Stdout
		}
		return result, nil
	}
	result.Stdout = out.Run.Stdout
	result.Stderr = out.Run.Stderr
	result.ExitCode = out.Run.Code
	return result, nil
}
