// Package planner selects a week of recipes against weekly nutrient
// goals, a rating preference, and a per-recipe lactose ceiling.
package planner

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadExclusions reads the newline-delimited recipe exclusion list.
// Lines starting with # are comments. A missing file means no exclusions.
func LoadExclusions(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("failed to open exclusion list: %w", err)
	}
	defer f.Close()

	excluded := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		excluded[strings.ToLower(line)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exclusion list: %w", err)
	}
	return excluded, nil
}
