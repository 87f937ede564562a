package enricher

import (
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// domainKeywords backs both document-domain classification and per-domain
// topic scoring. Keys are lower-cased for density
// comparisons; TechnicalKeywords below carries the original casing used
// for the per-chunk "Tech:" allow-list scan.
var domainKeywords = map[schema.DocumentDomain][]string{
	schema.DomainTechnical: {
		"api", "rest", "graphql", "json", "xml", "http", "https", "ssl", "tls",
		"jwt", "oauth", "sql", "nosql", "mongodb", "postgresql", "mysql",
		"docker", "kubernetes", "aws", "azure", "gcp", "devops", "server",
		"database", "architecture", "deploy", "endpoint", "microservice",
	},
	schema.DomainBusiness: {
		"revenue", "strategy", "market", "customer", "growth", "budget",
		"finance", "marketing", "operations", "stakeholder", "quarterly",
		"forecast", "investment", "roi", "sales", "brand",
	},
	schema.DomainAcademic: {
		"research", "hypothesis", "theory", "methodology", "literature",
		"citation", "experiment", "dataset", "analysis", "findings",
		"abstract", "peer-reviewed", "results", "conclusion",
	},
}

// TechnicalKeywords is the allow-list scanned case-insensitively for the
// per-chunk "Technical keywords" field, kept in display
// case so matches can be uppercased uniformly.
var TechnicalKeywords = []string{
	"API", "REST", "GraphQL", "JSON", "XML", "HTTP", "HTTPS", "SSL", "TLS",
	"JWT", "OAuth", "SQL", "NoSQL", "MongoDB", "PostgreSQL", "MySQL",
	"Docker", "Kubernetes", "AWS", "Azure", "GCP", "CI/CD", "DevOps",
}

// ClassifyDomain implements the document-domain decision by
// keyword density across the whole document text. Returns General when
// text is empty or no domain clears the density floor, never an error:
// "no LLM available -> domain defaults to General, recorded not an
// error."
func ClassifyDomain(text string) schema.DocumentDomain {
	words := tokenizeLower(text)
	if len(words) == 0 {
		return schema.DomainGeneral
	}

	best := schema.DomainGeneral
	bestDensity := 0.0
	for _, domain := range []schema.DocumentDomain{schema.DomainTechnical, schema.DomainBusiness, schema.DomainAcademic} {
		density := keywordDensity(words, domainKeywords[domain])
		if density > bestDensity {
			bestDensity = density
			best = domain
		}
	}

	const densityFloor = 0.01
	if bestDensity < densityFloor {
		return schema.DomainGeneral
	}
	return best
}

// TopicScores computes the domain-specific topic map (for Technical:
// API, Architecture, Database, Security, and so on per domain) as
// keyword density over lower-cased tokens longer than 3.
func TopicScores(domain schema.DocumentDomain, content string) map[string]float64 {
	topics := topicKeywordsFor(domain)
	if topics == nil {
		return nil
	}
	words := tokenizeLower(content)
	scores := make(map[string]float64, len(topics))
	for topic, keywords := range topics {
		scores[topic] = keywordDensity(words, keywords)
	}
	return scores
}

func topicKeywordsFor(domain schema.DocumentDomain) map[string][]string {
	switch domain {
	case schema.DomainTechnical:
		return map[string][]string{
			"API":          {"api", "endpoint", "rest", "graphql", "request", "response"},
			"Architecture": {"architecture", "design", "component", "microservice", "pattern"},
			"Database":     {"database", "sql", "query", "schema", "table", "index"},
			"Security":     {"security", "auth", "token", "encryption", "vulnerability"},
		}
	case schema.DomainBusiness:
		return map[string][]string{
			"Strategy":  {"strategy", "vision", "roadmap", "competitive", "goal"},
			"Finance":   {"finance", "revenue", "budget", "cost", "profit"},
			"Marketing": {"marketing", "brand", "campaign", "customer", "market"},
			"Operations": {"operations", "process", "workflow", "logistics", "supply"},
		}
	case schema.DomainAcademic:
		return map[string][]string{
			"Research":   {"research", "study", "experiment", "survey"},
			"Theory":     {"theory", "model", "framework", "hypothesis"},
			"Results":    {"results", "finding", "outcome", "data"},
			"Literature": {"literature", "citation", "reference", "review"},
		}
	default:
		return nil
	}
}

// ExtractTechnicalKeywords scans content case-insensitively against
// TechnicalKeywords and returns the matches, deduplicated and uppercased,
//
func ExtractTechnicalKeywords(content string) []string {
	lower := strings.ToLower(content)
	seen := make(map[string]bool)
	var out []string
	for _, kw := range TechnicalKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			upper := strings.ToUpper(kw)
			if !seen[upper] {
				seen[upper] = true
				out = append(out, upper)
			}
		}
	}
	return out
}

func tokenizeLower(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-'
	})
}

func keywordDensity(words []string, keywords []string) float64 {
	if len(words) == 0 || len(keywords) == 0 {
		return 0
	}
	set := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		set[strings.ToLower(k)] = true
	}
	hits := 0
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if set[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}
