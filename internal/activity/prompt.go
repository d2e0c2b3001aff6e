package activity

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// LastPrompt reads the history file and returns the display text of the
// last valid entry. Malformed lines are skipped scanning backward; a
// missing file or a file with no decodable entries yields ok=false.
func LastPrompt(historyFile string) (string, bool) {
	f, err := os.Open(historyFile)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// History entries can carry long pasted prompts.
	buf := make([]byte, 0, 256*1024)
	scanner.Buffer(buf, 1024*1024)

	var lines []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		var entry struct {
			Display string `json:"display"`
		}
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			continue
		}
		if entry.Display != "" {
			return entry.Display, true
		}
	}
	return "", false
}
