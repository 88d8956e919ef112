package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ecohub-labs/ecohub-core/internal/device"
)

// maxLogLine bounds a single NDJSON line; snapshot payloads are small,
// so anything near this size indicates corruption.
const maxLogLine = 1 << 20

// ReadLog parses an NDJSON telemetry log back into snapshots.
//
// A truncated final line (the product of a crash mid-append) is
// tolerated and skipped; a malformed line anywhere else returns
// ErrLogCorrupt. Blank lines are ignored.
//
// Parameters:
//   - path: Telemetry log file path
//
// Returns:
//   - []device.Snapshot: Snapshots in file order
//   - error: nil on success, file open error, or ErrLogCorrupt
func ReadLog(path string) ([]device.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry log: %w", err)
	}
	defer file.Close()

	return readLog(file)
}

func readLog(r io.Reader) ([]device.Snapshot, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)

	var snapshots []device.Snapshot
	var pendingErr error
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// A parse failure on an earlier line means the file is corrupt,
		// not merely truncated.
		if pendingErr != nil {
			return nil, pendingErr
		}

		var snap device.Snapshot
		if err := json.Unmarshal([]byte(line), &snap); err != nil {
			pendingErr = fmt.Errorf("%w: line %d: %v", ErrLogCorrupt, lineNo, err)
			continue
		}

		snapshots = append(snapshots, snap)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading telemetry log: %w", err)
	}

	return snapshots, nil
}
