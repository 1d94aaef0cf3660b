package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrivener/internal/config"
	"scrivener/internal/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	cfg := config.DefaultConfig()
	cfg.ProjectRoot = t.TempDir()

	srv, err := NewServer(&cfg, logger)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestPlanHandlers_RoundTrip(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, err := srv.handleCreatePlan(ctx, callRequest(map[string]any{
		"content": "refactor the parser",
		"title":   "Parser work",
	}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := resultText(t, res); !strings.Contains(got, "plan_001") {
		t.Errorf("expected plan_001 in %q", got)
	}

	res, err = srv.handleReadPlan(ctx, callRequest(map[string]any{"plan_id": "plan_001"}))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Parser work") || !strings.Contains(text, "refactor the parser") {
		t.Errorf("plan content missing from %q", text)
	}

	res, _ = srv.handleUpdatePlan(ctx, callRequest(map[string]any{
		"plan_id": "plan_001",
		"content": "refactor the parser and lexer",
	}))
	if res.IsError {
		t.Fatalf("update reported error: %s", resultText(t, res))
	}

	res, _ = srv.handleReadPlan(ctx, callRequest(map[string]any{"plan_id": "plan_001"}))
	text = resultText(t, res)
	if !strings.Contains(text, "Parser work") {
		t.Error("update without title should keep the old title")
	}
	if !strings.Contains(text, "lexer") {
		t.Error("updated content not returned")
	}

	res, _ = srv.handleDeletePlan(ctx, callRequest(map[string]any{"plan_id": "plan_001"}))
	if res.IsError {
		t.Fatalf("delete reported error: %s", resultText(t, res))
	}

	res, _ = srv.handleReadPlan(ctx, callRequest(map[string]any{"plan_id": "plan_001"}))
	if !res.IsError {
		t.Error("reading a deleted plan should be an error result")
	}
}

func TestReadPlan_AllWhenNoID(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	srv.handleCreatePlan(ctx, callRequest(map[string]any{"content": "first"}))
	srv.handleCreatePlan(ctx, callRequest(map[string]any{"content": "second"}))

	res, err := srv.handleReadPlan(ctx, callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("read all failed: %v", err)
	}
	text := resultText(t, res)
	for _, want := range []string{"plan_001", "plan_002", "first", "second"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in listing, got %q", want, text)
		}
	}
}

func TestDeletePlan_BlockedByTodos(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	srv.handleCreatePlan(ctx, callRequest(map[string]any{"content": "plan body"}))
	srv.handleCreateTodo(ctx, callRequest(map[string]any{
		"content":      "step one",
		"related_plan": "plan_001",
	}))

	res, _ := srv.handleDeletePlan(ctx, callRequest(map[string]any{"plan_id": "plan_001"}))
	if !res.IsError {
		t.Fatal("delete should fail while todos reference the plan")
	}
	text := resultText(t, res)
	if !strings.Contains(text, "1 todos") {
		t.Errorf("error should report the blocking count, got %q", text)
	}
}

func TestTodoHandlers_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	srv.handleCreatePlan(ctx, callRequest(map[string]any{"content": "plan body"}))

	res, _ := srv.handleCreateTodo(ctx, callRequest(map[string]any{
		"content":      "write tests",
		"related_plan": "plan_001",
	}))
	if res.IsError {
		t.Fatalf("create todo failed: %s", resultText(t, res))
	}

	res, _ = srv.handleCreateTodo(ctx, callRequest(map[string]any{
		"content":      "orphan",
		"related_plan": "plan_999",
	}))
	if !res.IsError {
		t.Error("todo creation against a missing plan should fail")
	}

	res, _ = srv.handleReadTodos(ctx, callRequest(map[string]any{}))
	if text := resultText(t, res); !strings.Contains(text, "write tests") {
		t.Errorf("pending listing missing todo: %q", text)
	}

	res, _ = srv.handleFinishTodo(ctx, callRequest(map[string]any{
		"todo_id": "todo_001",
		"git_log": "abc1234 write tests",
	}))
	if res.IsError {
		t.Fatalf("finish failed: %s", resultText(t, res))
	}

	res, _ = srv.handleReadTodos(ctx, callRequest(map[string]any{"status": "completed"}))
	text := resultText(t, res)
	if !strings.Contains(text, "write tests") || !strings.Contains(text, "abc1234") {
		t.Errorf("completed listing should carry the git log, got %q", text)
	}

	res, _ = srv.handleReadTodos(ctx, callRequest(map[string]any{}))
	if text := resultText(t, res); strings.Contains(text, "write tests") {
		t.Error("completed todo still listed as pending")
	}
}

func TestFinishTodo_AutoGitLogOutsideRepo(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	srv.handleCreatePlan(ctx, callRequest(map[string]any{"content": "plan body"}))
	srv.handleCreateTodo(ctx, callRequest(map[string]any{
		"content":      "task",
		"related_plan": "plan_001",
	}))

	// The temp project root is not a git repository, so auto collection
	// falls back to a placeholder instead of failing the completion.
	res, _ := srv.handleFinishTodo(ctx, callRequest(map[string]any{
		"todo_id": "todo_001",
		"git_log": "auto",
	}))
	if res.IsError {
		t.Fatalf("finish with auto log failed: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "git log unavailable") {
		t.Errorf("expected placeholder log, got %q", text)
	}
}

func TestMoveTodoHandler(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	srv.handleCreatePlan(ctx, callRequest(map[string]any{"content": "plan body"}))
	srv.handleCreateTodo(ctx, callRequest(map[string]any{"content": "first", "related_plan": "plan_001"}))
	srv.handleCreateTodo(ctx, callRequest(map[string]any{"content": "second", "related_plan": "plan_001"}))

	res, _ := srv.handleMoveTodo(ctx, callRequest(map[string]any{
		"todo_id":  "todo_002",
		"position": "start",
	}))
	if res.IsError {
		t.Fatalf("move failed: %s", resultText(t, res))
	}

	res, _ = srv.handleReadTodos(ctx, callRequest(map[string]any{}))
	text := resultText(t, res)
	if strings.Index(text, "second") > strings.Index(text, "first") {
		t.Errorf("todo_002 should be listed first after the move, got %q", text)
	}
}

func TestDocHandlers(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, _ := srv.handleUpdateDoc(ctx, callRequest(map[string]any{
		"directory": "internal/store",
		"content":   "nope",
	}))
	if !res.IsError {
		t.Error("update before create should fail")
	}

	srv.handleCreateDoc(ctx, callRequest(map[string]any{
		"directory": "internal/store",
		"content":   "persistence layer",
	}))

	res, _ = srv.handleReadDoc(ctx, callRequest(map[string]any{"directory": "internal/store"}))
	if got := resultText(t, res); got != "persistence layer" {
		t.Errorf("unexpected doc content %q", got)
	}

	srv.handleCreateDoc(ctx, callRequest(map[string]any{
		"directory": "cmd",
		"content":   "entry points",
	}))

	res, _ = srv.handleReadDoc(ctx, callRequest(map[string]any{}))
	text := resultText(t, res)
	if !strings.Contains(text, "internal/store") || !strings.Contains(text, "cmd") {
		t.Errorf("listing should include both directories, got %q", text)
	}
}

func TestRecentChangesHandlers(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, _ := srv.handleGetRecentChanges(ctx, callRequest(map[string]any{}))
	if text := resultText(t, res); !strings.Contains(text, "(none)") {
		t.Errorf("empty store should report no changes, got %q", text)
	}

	res, _ = srv.handleUpdateRecentChanges(ctx, callRequest(map[string]any{
		"current":  []any{"added store package", "wired audit tool"},
		"archived": []any{"initial scaffolding"},
	}))
	if res.IsError {
		t.Fatalf("update failed: %s", resultText(t, res))
	}

	res, _ = srv.handleGetRecentChanges(ctx, callRequest(map[string]any{}))
	text := resultText(t, res)
	for _, want := range []string{"added store package", "wired audit tool", "initial scaffolding"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
}

func TestFileStatusHandlers(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	root := srv.store.ProjectRoot()

	path := filepath.Join(root, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0644); err != nil {
		t.Fatal(err)
	}

	res, _ := srv.handleUpdateFileStatus(ctx, callRequest(map[string]any{
		"file_path": "main.go",
		"audited":   true,
	}))
	if res.IsError {
		t.Fatalf("mark audited failed: %s", resultText(t, res))
	}

	res, _ = srv.handleGetFileStatus(ctx, callRequest(map[string]any{"file_path": "main.go"}))
	text := resultText(t, res)
	if !strings.Contains(text, "Audited: true") {
		t.Errorf("expected audited status, got %q", text)
	}

	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res, _ = srv.handleGetFileStatus(ctx, callRequest(map[string]any{"file_path": "main.go"}))
	if text := resultText(t, res); !strings.Contains(text, "Modified after audit") {
		t.Errorf("expected staleness report, got %q", text)
	}

	res, _ = srv.handleListFileStatus(ctx, callRequest(map[string]any{"directory": ""}))
	if text := resultText(t, res); !strings.Contains(text, "main.go") {
		t.Errorf("listing missing tracked file, got %q", text)
	}

	res, _ = srv.handleUpdateFileStatus(ctx, callRequest(map[string]any{
		"file_path": "main.go",
		"audited":   false,
	}))
	if res.IsError {
		t.Fatalf("clear failed: %s", resultText(t, res))
	}

	res, _ = srv.handleGetFileStatus(ctx, callRequest(map[string]any{"file_path": "main.go"}))
	if text := resultText(t, res); !strings.Contains(text, "no audit record") {
		t.Errorf("cleared file should have no record, got %q", text)
	}
}

func TestMarkAudited_MissingFile(t *testing.T) {
	srv := newTestServer(t)

	res, _ := srv.handleUpdateFileStatus(context.Background(), callRequest(map[string]any{
		"file_path": "does/not/exist.go",
		"audited":   true,
	}))
	if !res.IsError {
		t.Error("auditing a missing file should fail")
	}
}

func TestListVariableHandlers(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, _ := srv.handleCreateListVariable(ctx, callRequest(map[string]any{
		"name":  "skip_rules",
		"items": []any{"ignore generated files"},
	}))
	if res.IsError {
		t.Fatalf("create failed: %s", resultText(t, res))
	}

	res, _ = srv.handleAppendToListVariable(ctx, callRequest(map[string]any{
		"name": "skip_rules",
		"item": "ignore vendored code",
	}))
	if res.IsError {
		t.Fatalf("append failed: %s", resultText(t, res))
	}

	res, _ = srv.handleReadListVariable(ctx, callRequest(map[string]any{"name": "skip_rules"}))
	text := resultText(t, res)
	if !strings.Contains(text, "ignore generated files") || !strings.Contains(text, "ignore vendored code") {
		t.Errorf("both items expected, got %q", text)
	}

	res, _ = srv.handleRemoveFromListVariable(ctx, callRequest(map[string]any{
		"name": "skip_rules",
		"item": "ignore generated files",
	}))
	if res.IsError {
		t.Fatalf("remove failed: %s", resultText(t, res))
	}

	res, _ = srv.handleUpdateListVariable(ctx, callRequest(map[string]any{
		"name":                   "skip_rules",
		"items":                  []any{"only this"},
		"need_user_confirmation": true,
	}))
	if res.IsError {
		t.Fatalf("update failed: %s", resultText(t, res))
	}

	res, _ = srv.handleReadListVariable(ctx, callRequest(map[string]any{"name": "skip_rules"}))
	text = resultText(t, res)
	if !strings.Contains(text, "only this") || !strings.Contains(text, "confirmation") {
		t.Errorf("update not reflected, got %q", text)
	}

	res, _ = srv.handleDeleteListVariable(ctx, callRequest(map[string]any{"name": "skip_rules"}))
	if res.IsError {
		t.Fatalf("delete failed: %s", resultText(t, res))
	}

	res, _ = srv.handleReadListVariable(ctx, callRequest(map[string]any{"name": "skip_rules"}))
	if !res.IsError {
		t.Error("deleted variable should not be readable")
	}
}

func TestAppendToMissingVariable(t *testing.T) {
	srv := newTestServer(t)

	res, _ := srv.handleAppendToListVariable(context.Background(), callRequest(map[string]any{
		"name": "nope",
		"item": "x",
	}))
	if !res.IsError {
		t.Error("append to a missing variable should fail, not create it")
	}
}

func TestResolveExemptionRules(t *testing.T) {
	srv := newTestServer(t)

	rules, err := srv.resolveExemptionRules("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if rules != "" {
		t.Errorf("no sources should yield empty rules, got %q", rules)
	}

	srv.store.CreateListVariable("audit_exemptions", []string{"logging may differ", "naming may differ"}, false)
	rules, err = srv.resolveExemptionRules("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if rules != "logging may differ\nnaming may differ" {
		t.Errorf("unexpected rules from list variable: %q", rules)
	}

	dir := t.TempDir()
	plain := filepath.Join(dir, "rules.md")
	os.WriteFile(plain, []byte("rule one\nrule two\n"), 0644)
	rules, err = srv.resolveExemptionRules(plain)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if rules != "rule one\nrule two" {
		t.Errorf("unexpected rules from plain file: %q", rules)
	}

	withMeta := filepath.Join(dir, "rules_meta.md")
	os.WriteFile(withMeta, []byte("---\ndescription: migration exemptions\n---\nbody rule\n"), 0644)
	rules, err = srv.resolveExemptionRules(withMeta)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if rules != "body rule" {
		t.Errorf("frontmatter should be stripped, got %q", rules)
	}

	if _, err := srv.resolveExemptionRules(filepath.Join(dir, "missing.md")); err == nil {
		t.Error("missing exemption file should be an error")
	}
}

func TestMergeChangesPrompt(t *testing.T) {
	srv := newTestServer(t)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"existing_changes": "- reworked the store"}

	res, err := srv.handleMergeChangesPrompt(context.Background(), req)
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(res.Messages))
	}
	tc, ok := res.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Messages[0].Content)
	}
	if !strings.Contains(tc.Text, "reworked the store") {
		t.Errorf("existing changes missing from prompt: %q", tc.Text)
	}
	if !strings.Contains(tc.Text, "update_recent_changes") {
		t.Error("prompt should direct the model to the update tool")
	}
	if !strings.Contains(tc.Text, "5-10 most important") {
		t.Error("prompt should bound retention to the most important entries")
	}
}

func TestAuditPromptHandler(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "old.py")
	newFile := filepath.Join(dir, "new.go")
	os.WriteFile(oldFile, []byte("def handler(): pass\n"), 0644)
	os.WriteFile(newFile, []byte("func handler() {}\n"), 0644)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"old_file": oldFile, "new_file": newFile}

	res, err := srv.handleAuditPrompt(context.Background(), req)
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	tc := res.Messages[0].Content.(mcp.TextContent)
	if !strings.Contains(tc.Text, "def handler") || !strings.Contains(tc.Text, "func handler") {
		t.Error("prompt should embed both file contents")
	}

	req.Params.Arguments = map[string]string{"old_file": oldFile}
	if _, err := srv.handleAuditPrompt(context.Background(), req); err == nil {
		t.Error("missing new_file should be an error")
	}
}
