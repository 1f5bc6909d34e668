package mock

import (
	"fmt"
	"sort"
	"time"
)

// referenceTime anchors every generated date so output depends only on the
// seed, never on the wall clock.
var referenceTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

var (
	firstNames = []string{"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
	domains    = []string{"example.com", "test.com", "demo.com", "mail.com"}
	words      = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}
	streets    = []string{"Main Street", "Oak Avenue", "Maple Road", "Cedar Lane", "Park Boulevard"}
	cities     = []string{"Springfield", "Riverton", "Fairview", "Georgetown", "Clinton"}
	titles     = []string{
		"Getting Started Guide",
		"Quarterly Review",
		"Release Notes",
		"Onboarding Checklist",
		"Architecture Overview",
		"Deployment Playbook",
		"Incident Postmortem",
		"Product Roadmap",
	}
	sentences = []string{
		"This is a sample text generated for testing purposes.",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		"The quick brown fox jumps over the lazy dog.",
		"Software development requires careful planning and execution.",
		"Database design is crucial for application performance.",
	}
)

func generateFullName(s *Stream) string {
	return s.Pick(firstNames) + " " + s.Pick(lastNames)
}

func generateEmail(s *Stream) string {
	return fmt.Sprintf("user%d_%d@%s", s.NextCounter(), s.Intn(100000), s.Pick(domains))
}

func generatePhone(s *Stream) string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", s.Intn(1000), s.Intn(1000), s.Intn(10000))
}

func generateAddress(s *Stream) string {
	return fmt.Sprintf("%d %s, %s %05d", s.Intn(9999)+1, s.Pick(streets), s.Pick(cities), s.Intn(100000))
}

func generatePrice(s *Stream) float64 {
	cents := s.Intn(999900) + 100
	return float64(cents) / 100
}

func generateQuantity(s *Stream) int {
	return s.Intn(100) + 1
}

func generateBoolean(s *Stream) bool {
	return s.Intn(2) == 1
}

func generatePastTimestamp(s *Stream) string {
	minutes := s.Intn(365 * 24 * 60)
	return referenceTime.Add(-time.Duration(minutes) * time.Minute).Format(time.RFC3339)
}

func generateFutureTimestamp(s *Stream) string {
	minutes := s.Intn(365 * 24 * 60)
	return referenceTime.Add(time.Duration(minutes) * time.Minute).Format(time.RFC3339)
}

func generateBirthDate(s *Stream) string {
	years := s.Intn(60) + 18
	days := s.Intn(365)
	return referenceTime.AddDate(-years, 0, -days).Format("2006-01-02")
}

func generatePastDate(s *Stream) string {
	days := s.Intn(365)
	return referenceTime.AddDate(0, 0, -days).Format("2006-01-02")
}

func generateFutureDate(s *Stream) string {
	days := s.Intn(365) + 1
	return referenceTime.AddDate(0, 0, days).Format("2006-01-02")
}

func generateTitle(s *Stream) string {
	return s.Pick(titles)
}

func generateSentence(s *Stream) string {
	return s.Pick(sentences)
}

func generateWord(s *Stream) string {
	return s.Pick(words)
}

func generateURL(s *Stream) string {
	return fmt.Sprintf("https://example.com/page/%d", s.Intn(1000))
}

func generateInteger(s *Stream) int {
	return s.Intn(1000000) + 1
}

func generateNumber(s *Stream) float64 {
	return float64(s.Intn(1000000)) / 100
}

// Named generators resolvable from configuration overrides. Unknown names
// degrade to a warning at synthesis time, never an error.
var namedGenerators = map[string]func(*Stream) any{
	"fullName":  func(s *Stream) any { return generateFullName(s) },
	"name":      func(s *Stream) any { return generateFullName(s) },
	"email":     func(s *Stream) any { return generateEmail(s) },
	"phone":     func(s *Stream) any { return generatePhone(s) },
	"address":   func(s *Stream) any { return generateAddress(s) },
	"price":     func(s *Stream) any { return generatePrice(s) },
	"quantity":  func(s *Stream) any { return generateQuantity(s) },
	"boolean":   func(s *Stream) any { return generateBoolean(s) },
	"timestamp": func(s *Stream) any { return generatePastTimestamp(s) },
	"pastDate":  func(s *Stream) any { return generatePastDate(s) },
	"futureDate": func(s *Stream) any {
		return generateFutureDate(s)
	},
	"birthDate": func(s *Stream) any { return generateBirthDate(s) },
	"uuid":      func(s *Stream) any { return s.UUID() },
	"guid":      func(s *Stream) any { return s.UUID() },
	"url":       func(s *Stream) any { return generateURL(s) },
	"title":     func(s *Stream) any { return generateTitle(s) },
	"sentence":  func(s *Stream) any { return generateSentence(s) },
	"word":      func(s *Stream) any { return generateWord(s) },
	"integer":   func(s *Stream) any { return generateInteger(s) },
	"number":    func(s *Stream) any { return generateNumber(s) },
}

// LookupGenerator resolves a configuration override by name.
func LookupGenerator(name string) (func(*Stream) any, bool) {
	g, ok := namedGenerators[name]
	return g, ok
}

// GeneratorNames lists the resolvable override names in sorted order.
func GeneratorNames() []string {
	names := make([]string, 0, len(namedGenerators))
	for name := range namedGenerators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
