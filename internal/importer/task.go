package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// Task is one record read from an import file.
type Task struct {
	Line   int
	Record store.Record
}

func (t Task) String() string {
	return fmt.Sprintf("line %d (%s)", t.Line, t.Record.Name)
}

type TaskResult struct {
	Task    Task
	ID      string
	Success bool
	Skipped bool
	Invalid bool
	Error   error
}

// ReadTasks parses newline-delimited JSON records. Blank lines are ignored.
func ReadTasks(r io.Reader) ([]Task, error) {
	var tasks []Task

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var rec store.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tasks = append(tasks, Task{Line: line, Record: rec})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	return tasks, nil
}
