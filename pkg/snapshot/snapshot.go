package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"holdem-server/internal/util"
)

var lock sync.Mutex
var funcCount = make(map[string]int)

// ValidateSnapshot compares obj as indented JSON against testdata/<func>-<call>.json
// A missing snapshot is written instead of compared. Set UPDATE_SNAPSHOTS=1 to rewrite existing snapshots
func ValidateSnapshot(t *testing.T, obj interface{}, depth int, msgAndArgs ...interface{}) {
	t.Helper()

	filename := nextFilename(depth + 2)
	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not encode snapshot: %v", err)
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || util.Getenv("UPDATE_SNAPSHOTS", "") == "1" {
		write(t, filename, objJSON)
		return
	} else if err != nil {
		t.Fatalf("could not read snapshot %s: %v", filename, err)
	}

	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(objJSON), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
	}
}

// nextFilename names the snapshot after the calling function and how many times it has called
func nextFilename(skip int) string {
	pc, _, _, _ := runtime.Caller(skip)
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	lock.Lock()
	call := funcCount[funcName]
	funcCount[funcName] = call + 1
	lock.Unlock()

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", funcName, call))
}

func write(t *testing.T, filename string, objJSON []byte) {
	t.Helper()

	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatalf("could not create snapshot directory: %v", err)
	}

	if err := os.WriteFile(filename, append(objJSON, '\n'), 0644); err != nil {
		t.Fatalf("could not write snapshot %s: %v", filename, err)
	}
}
