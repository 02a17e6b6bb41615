package cluster

import (
	"fmt"
	"log"
	"strings"

	"taqrir/models"
)

// DefaultTopicName is the single-topic name used when there are too few
// facts to cluster at all.
const DefaultTopicName = "المحور الرئيسي"

// Topic is a named, ordered group of facts forming one report section.
type Topic struct {
	Name  string
	Facts []models.Fact
}

// Clusterer groups fact embeddings into named topics. It never returns
// zero topics when input facts exist: degenerate inputs collapse into a
// single group.
type Clusterer struct {
	labeler        Labeler
	minClusterSize int
	logger         *log.Logger
}

func New(labeler Labeler, minClusterSize int) *Clusterer {
	if minClusterSize < 2 {
		minClusterSize = 2
	}
	return &Clusterer{
		labeler:        labeler,
		minClusterSize: minClusterSize,
		logger:         log.New(log.Writer(), "[CLUSTER] ", log.LstdFlags),
	}
}

// BuildTopics clusters facts by their embeddings. Fewer facts than the
// minimum cluster size (or a missing labeler or vectors) short-circuits
// into one default topic holding everything in original order.
func (c *Clusterer) BuildTopics(facts []models.Fact, vectors [][]float64) []Topic {
	if len(facts) == 0 {
		return nil
	}
	if len(facts) < c.minClusterSize || c.labeler == nil || len(vectors) != len(facts) {
		return []Topic{{Name: DefaultTopicName, Facts: facts}}
	}

	labels := c.labeler.Labels(vectors, c.minClusterSize)

	var order []int
	grouped := make(map[int][]models.Fact)
	var noise []models.Fact
	for i, label := range labels {
		if label == NoiseLabel {
			noise = append(noise, facts[i])
			continue
		}
		if _, ok := grouped[label]; !ok {
			order = append(order, label)
		}
		grouped[label] = append(grouped[label], facts[i])
	}
	c.logger.Printf("clustering produced %d groups, %d noise facts", len(order), len(noise))

	var groups [][]models.Fact
	for _, label := range order {
		groups = append(groups, grouped[label])
	}
	// All noise and no groups still has to produce output: collapse
	// everything into one catch-all topic.
	if len(groups) == 0 && len(noise) > 0 {
		groups = append(groups, noise)
	}

	topics := make([]Topic, 0, len(groups))
	seenNames := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		name := deriveName(group[0].Text)
		base := name
		for count := 2; ; count++ {
			if _, taken := seenNames[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s (%d)", base, count)
		}
		seenNames[name] = struct{}{}
		topics = append(topics, Topic{Name: name, Facts: group})
	}
	return topics
}

// deriveName truncates a fact's text at the first clause or sentence
// delimiter to make a display name.
func deriveName(text string) string {
	name := strings.SplitN(text, "،", 2)[0]
	name = strings.SplitN(name, ".", 2)[0]
	name = strings.TrimSpace(name)
	if name == "" {
		return "محور"
	}
	return name
}
