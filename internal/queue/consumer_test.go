package queue

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestHandleMessageAppendsLine(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    body := []byte(`{"movie_id":"550","movie_title":"Fight Club","show_ids":["a","b"],"show_date_times":["2024-05-01T14:30:00Z","2024-05-01T18:00:00Z"],"show_price":12,"added_at":"2024-04-30T10:00:00Z"}`)
    for i := 0; i < 2; i++ {
        if err := handleMessage(dir, body); err != nil {
            t.Fatalf("handleMessage: %v", err)
        }
    }
    data, err := os.ReadFile(filepath.Join(dir, "shows.log"))
    if err != nil {
        t.Fatal(err)
    }
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    if len(lines) != 2 {
        t.Fatalf("expected 2 appended lines, got %d: %q", len(lines), data)
    }
    want := `[2024-04-30T10:00:00Z] Shows added | movie_id=550 | movie="Fight Club" | count=2 | price=12.00 | times=[2024-05-01T14:30:00Z,2024-05-01T18:00:00Z]`
    if lines[0] != want {
        t.Fatalf("unexpected line\n got: %s\nwant: %s", lines[0], want)
    }
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
    if err := handleMessage(t.TempDir(), []byte("not json")); err == nil {
        t.Fatalf("expected unmarshal error")
    }
}

func TestFormatEventWithoutTimes(t *testing.T) {
    line := formatEvent(ShowsAddedEvent{MovieID: "1"})
    if !strings.Contains(line, "times=[]") || !strings.Contains(line, "count=0") {
        t.Fatalf("unexpected line %q", line)
    }
}
