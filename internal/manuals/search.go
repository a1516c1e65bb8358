package manuals

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"

	"support-backend/internal/llm"
	"support-backend/internal/shared/metrics"
	"support-backend/internal/shared/telemetry"
)

const (
	maxSearchResults = 5
	minFallbackScore = 0.1
)

var integerToken = regexp.MustCompile(`\d+`)

// SearchManual ranks a manual's sections against q. Unknown or unready
// manuals yield no results and an empty source. The model picks candidates; when it fails, every
// section is scored locally instead.
func (p *Processor) SearchManual(ctx context.Context, manualID string, q SearchQuery) ([]SearchResult, llm.Source, error) {
	m, err := p.Repo.Get(ctx, manualID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []SearchResult{}, "", nil
		}
		return nil, "", err
	}
	if m.Status != StatusReady || len(m.Sections) == 0 {
		return []SearchResult{}, "", nil
	}

	text, err := llm.GenerateText(ctx, p.LLM, buildRankingPrompt(m.Sections, q))
	if err != nil {
		telemetry.Warn("manual.search_fallback", map[string]any{"manual_id": manualID, "error": err.Error()})
		metrics.IncFallback("manual_search")
		return keywordSearch(m.Sections, q), llm.SourceFallback, nil
	}

	results := []SearchResult{}
	for _, idx := range parseRanking(text, maxSearchResults) {
		if idx > len(m.Sections) {
			continue
		}
		results = append(results, scoreSection(m.Sections[idx-1], q))
	}
	sortByRelevance(results)
	return results, llm.SourceGenerated, nil
}

// parseRanking returns the first limit distinct positive integers in text,
// in order of appearance.
func parseRanking(text string, limit int) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, tok := range integerToken.FindAllString(text, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out
}

func keywordSearch(sections []Section, q SearchQuery) []SearchResult {
	results := []SearchResult{}
	for _, s := range sections {
		r := scoreSection(s, q)
		if r.RelevanceScore > minFallbackScore {
			results = append(results, r)
		}
	}
	sortByRelevance(results)
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}

func scoreSection(s Section, q SearchQuery) SearchResult {
	return SearchResult{
		Section:         s,
		RelevanceScore:  relevanceScore(s, q.Query, q.TicketContext),
		MatchedKeywords: matchedKeywords(s, q.Query),
	}
}

func sortByRelevance(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
}
