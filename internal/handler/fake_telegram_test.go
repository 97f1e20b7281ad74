package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const testToken = "123456:test-token"

// tgCall is one Bot API request seen by the fake server.
type tgCall struct {
	Method    string
	ChatID    string
	Text      string
	MessageID string
	// Result is the message id handed back for methods returning a message.
	Result int
}

// fakeTelegram serves the subset of the Bot API the handlers use.
type fakeTelegram struct {
	srv *httptest.Server

	mu        sync.Mutex
	calls     []tgCall
	nextID    int
	files     map[string][]byte
	delays    map[string]time.Duration
	gates     map[string]chan struct{}
	failEdits bool
}

func newFakeTelegram(t *testing.T) *fakeTelegram {
	t.Helper()
	f := &fakeTelegram{
		nextID: 500,
		files:  make(map[string][]byte),
		delays: make(map[string]time.Duration),
		gates:  make(map[string]chan struct{}),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTelegram) addFile(fileID string, data []byte, delay time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[fileID] = data
	f.delays[fileID] = delay
}

// gate holds downloads of fileID until the returned channel is closed.
func (f *fakeTelegram) gate(fileID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[fileID] = ch
	return ch
}

func (f *fakeTelegram) serve(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/file/bot") {
		f.serveFile(w, r)
		return
	}

	method := path.Base(r.URL.Path)
	call := tgCall{
		Method:    method,
		ChatID:    r.FormValue("chat_id"),
		Text:      r.FormValue("text"),
		MessageID: r.FormValue("message_id"),
	}

	f.mu.Lock()
	failEdit := f.failEdits && method == "editMessageText"
	if !failEdit {
		f.nextID++
		call.Result = f.nextID
	}
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if failEdit {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{
			"ok":          false,
			"error_code":  400,
			"description": "Bad Request: message to edit not found",
		})
		return
	}

	chatID, _ := strconv.ParseInt(call.ChatID, 10, 64)
	message := map[string]any{
		"message_id": call.Result,
		"date":       time.Now().Unix(),
		"chat":       map[string]any{"id": chatID, "type": "private"},
	}

	var result any = true
	switch method {
	case "sendMessage", "editMessageText", "sendPhoto":
		result = message
	case "sendMediaGroup":
		result = []any{message}
	case "getFile":
		fileID := r.FormValue("file_id")
		result = map[string]any{
			"file_id":        fileID,
			"file_unique_id": fileID,
			"file_path":      "photos/" + fileID,
		}
	}
	writeJSON(w, map[string]any{"ok": true, "result": result})
}

func (f *fakeTelegram) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := path.Base(r.URL.Path)

	f.mu.Lock()
	data, ok := f.files[fileID]
	delay := f.delays[fileID]
	gate := f.gates[fileID]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if gate != nil {
		<-gate
	}
	time.Sleep(delay)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// sent returns the recorded calls of the given methods in request order.
func (f *fakeTelegram) sent(methods ...string) []tgCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgCall
	for _, c := range f.calls {
		for _, m := range methods {
			if c.Method == m {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (f *fakeTelegram) texts(chatID int64) []string {
	var out []string
	want := strconv.FormatInt(chatID, 10)
	for _, c := range f.sent("sendMessage") {
		if c.ChatID == want {
			out = append(out, c.Text)
		}
	}
	return out
}
