package docs

import (
	"bufio"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics extracts the topic names listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topics = append(topics, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	// The readme index and the topic files must stay in sync, both ways.
	inReadme := map[string]bool{}
	for _, topic := range readmeTopics(t) {
		inReadme[topic] = true
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("GetTopic(%q) error = %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	for _, topic := range all {
		if !inReadme[topic] {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
	if len(all) == 0 {
		t.Fatal("no topics found")
	}
}

func TestTopicsAreValidMarkdown(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	parser := goldmark.New().Parser()

	for _, topic := range append(all, "readme") {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			root := parser.Parse(text.NewReader([]byte(content)))

			// Every topic opens with a single level-one heading.
			headings := 0
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
					headings++
				}
				return ast.WalkContinue, nil
			})
			if headings != 1 {
				t.Errorf("topic %q has %d level-one headings, want 1", topic, headings)
			}
		})
	}
}

func TestGetTopicStar(t *testing.T) {
	everything, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) error = %v", err)
	}
	for _, want := range []string{"# Rebalancing", "# Configuration", "# GnuCash books"} {
		if !strings.Contains(everything, want) {
			t.Errorf("GetTopic(*) missing %q", want)
		}
	}
}

func TestGetTopicUnknown(t *testing.T) {
	if _, err := GetTopic("ponies"); err == nil {
		t.Error("GetTopic(ponies): no error")
	}
}
