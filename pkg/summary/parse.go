package summary

import "strings"

// section headers recognized in model narratives
var (
	findingHeaders        = []string{"KEY FINDINGS", "FINDINGS", "CLINICAL FINDINGS"}
	recommendationHeaders = []string{"RECOMMENDATIONS", "NEXT STEPS", "RECOMMENDED NEXT STEPS"}
)

// ParseNarrative scans the model's free-text output line by line and splits
// bulleted lines under the findings and recommendations headers into ordered
// lists. Unrecognized sections are ignored.
func ParseNarrative(output string) (findings, recommendations []string) {
	section := ""
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if header := matchHeader(trimmed, findingHeaders); header {
			section = "findings"
			continue
		}
		if header := matchHeader(trimmed, recommendationHeaders); header {
			section = "recommendations"
			continue
		}
		if strings.HasSuffix(trimmed, ":") && strings.ToUpper(trimmed) == trimmed {
			// some other all-caps section header
			section = ""
			continue
		}

		bullet, ok := stripBullet(trimmed)
		if !ok {
			continue
		}
		switch section {
		case "findings":
			findings = append(findings, bullet)
		case "recommendations":
			recommendations = append(recommendations, bullet)
		}
	}
	return findings, recommendations
}

func matchHeader(line string, headers []string) bool {
	upper := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	for _, h := range headers {
		if upper == h {
			return true
		}
	}
	return false
}

func stripBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	if len(line) > 2 && line[1] == '.' && line[0] >= '1' && line[0] <= '9' {
		return strings.TrimSpace(line[2:]), true
	}
	return "", false
}
