package keywords

import (
	"strings"
	"sync"
)

// canonical is the display form of every technology name the matcher knows
// about. Output order of Match follows this list, not the order terms appear
// in the scanned text.
var canonical = []string{
	"JavaScript",
	"TypeScript",
	"Python",
	"Java",
	"Go",
	"Rust",
	"C++",
	"C#",
	"Ruby",
	"PHP",
	"Swift",
	"Kotlin",
	"Scala",
	"Elixir",
	"React",
	"Angular",
	"Vue",
	"Svelte",
	"Next.js",
	"Node.js",
	"Express",
	"Django",
	"Flask",
	"FastAPI",
	"Spring",
	"Rails",
	"Laravel",
	".NET",
	"GraphQL",
	"REST",
	"gRPC",
	"PostgreSQL",
	"MySQL",
	"MongoDB",
	"Redis",
	"Elasticsearch",
	"Cassandra",
	"DynamoDB",
	"SQLite",
	"Kafka",
	"RabbitMQ",
	"AWS",
	"Azure",
	"GCP",
	"Docker",
	"Kubernetes",
	"Terraform",
	"Ansible",
	"Jenkins",
	"CircleCI",
	"Git",
	"Linux",
	"Spark",
	"Hadoop",
	"Airflow",
	"Snowflake",
	"dbt",
	"Pandas",
	"NumPy",
	"TensorFlow",
	"PyTorch",
	"scikit-learn",
	"OpenCV",
	"Webpack",
	"Vite",
	"Tailwind",
	"Sass",
	"Jest",
	"Cypress",
	"Selenium",
	"Playwright",
}

var (
	lowerOnce sync.Once
	lowered   []string
)

// loweredList returns the lowercase form of the canonical list. Computed once
// per process; the list is static configuration and is never invalidated.
func loweredList() []string {
	lowerOnce.Do(func() {
		lowered = make([]string, len(canonical))
		for i, kw := range canonical {
			lowered[i] = strings.ToLower(kw)
		}
	})
	return lowered
}

// Canonical returns the full canonical keyword list in matcher order.
func Canonical() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}

// Match returns the canonical form of every known technology whose lowercase
// name occurs as a substring of text, deduplicated, in canonical-list order.
// Substring (not word-boundary) matching is deliberate: it catches compound
// forms like "Node.js/Express" at the cost of occasional false positives.
func Match(text string) []string {
	if text == "" {
		return nil
	}
	haystack := strings.ToLower(text)
	low := loweredList()

	var found []string
	seen := make(map[string]bool, 8)
	for i, kw := range low {
		if !strings.Contains(haystack, kw) {
			continue
		}
		name := canonical[i]
		if seen[name] {
			continue
		}
		seen[name] = true
		found = append(found, name)
	}
	return found
}
