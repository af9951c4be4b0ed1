package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/becomeliminal/cortex/chunking"
	"github.com/becomeliminal/cortex/decision"
	"github.com/becomeliminal/cortex/embed"
	"github.com/becomeliminal/cortex/entity"
	"github.com/becomeliminal/cortex/extract"
	"github.com/becomeliminal/cortex/llm"
	"github.com/becomeliminal/cortex/memory"
	"github.com/becomeliminal/cortex/ontology"
	"github.com/becomeliminal/cortex/reasoning"
	"github.com/becomeliminal/cortex/search"
	"github.com/becomeliminal/cortex/store"
)

// Pipeline wires every collaborator the write pipeline and read-side
// operations need. All fields are shared by reference across calls.
type Pipeline struct {
	Store     store.Store
	Embedder  embed.Embedder
	Provider  llm.Provider // may be nil
	Extractor extract.Extractor
	Decision  decision.Engine
	Chunking  *chunking.Manager
	Entity    *entity.Manager
	Ontology  *ontology.Manager
	Reasoning *reasoning.Engine
	Search    *search.Engine
}

// New wires a Pipeline from its collaborators.
func New(s store.Store, embedder embed.Embedder, provider llm.Provider, extractor extract.Extractor, decisionEngine decision.Engine, chunker *chunking.Manager, entityMgr *entity.Manager, ontologyMgr *ontology.Manager, reasoningEngine *reasoning.Engine, searchEngine *search.Engine) *Pipeline {
	return &Pipeline{
		Store: s, Embedder: embedder, Provider: provider, Extractor: extractor,
		Decision: decisionEngine, Chunking: chunker, Entity: entityMgr,
		Ontology: ontologyMgr, Reasoning: reasoningEngine, Search: searchEngine,
	}
}

// AddMemory runs extraction, per-memory reconciliation/persistence, entity
// and ontology linking, and finally cross-memory relation materialization.
func (p *Pipeline) AddMemory(ctx context.Context, message, userID string, metadata map[string]string) (AddMemoryResult, error) {
	extracted, err := p.Extractor.Extract(ctx, message, userID, true, true)
	if err != nil {
		return AddMemoryResult{}, memory.NewError(memory.KindOperation, "add_memory", err)
	}
	if len(extracted.Memories) == 0 {
		extracted.Memories = []extract.ExtractedMemory{{
			Text: message, MemoryType: "fact", Certainty: 50, Importance: 50,
		}}
	}

	result := AddMemoryResult{}
	contentToID := make(map[string]string, len(extracted.Memories))

	for _, em := range extracted.Memories {
		memoryID, ok := p.processMemory(ctx, em, extracted, userID, metadata, &result)
		if !ok {
			continue
		}
		contentToID[normalizeContent(em.Text)] = memoryID
	}

	p.resolveCrossMemoryRelations(ctx, extracted.Relations, contentToID, &result)

	result.Metadata = map[string]string{
		"model":   p.Embedder.Model(),
		"user_id": userID,
	}
	if p.Provider != nil {
		result.Metadata["provider"] = p.Provider.ProviderName()
	}
	return result, nil
}

// processMemory runs stage 2-5 for one extracted memory: embed, candidate
// search, decision, dispatch, entity linking, ontology linking. Returns the
// persisted memory id and whether anything was persisted (false for Noop or
// an aborted memory).
func (p *Pipeline) processMemory(ctx context.Context, em extract.ExtractedMemory, extracted extract.Result, userID string, metadata map[string]string, result *AddMemoryResult) (string, bool) {
	vec, err := p.Embedder.Generate(ctx, em.Text, true)
	if err != nil {
		log.Printf("[PIPELINE] embedding failed for candidate memory, skipping: %v", err)
		result.Skipped++
		return "", false
	}

	candidates, err := p.searchCandidates(ctx, em.Text, userID, vec)
	if err != nil {
		log.Printf("[PIPELINE] candidate search failed, treating as add: %v", err)
	}

	dec, err := p.Decision.Decide(ctx, em.Text, candidates, userID)
	if err != nil {
		log.Printf("[PIPELINE] decision engine failed, skipping candidate memory: %v", err)
		result.Skipped++
		return "", false
	}

	var memoryID string

	switch dec.Operation {
	case decision.Noop:
		result.Skipped++
		return "", false

	case decision.Update:
		if dec.TargetMemoryID != "" && dec.MergedContent != "" {
			if err := p.Store.UpdateMemory(ctx, dec.TargetMemoryID, dec.MergedContent, vec); err != nil {
				log.Printf("[PIPELINE] updateMemory(%s) failed, skipping: %v", dec.TargetMemoryID, err)
				result.Skipped++
				return "", false
			}
			memoryID = dec.TargetMemoryID
			result.Updated = append(result.Updated, memoryID)
			break
		}
		// Ambiguous update (no target id or no merged content): silently fall
		// through to store-new, per the decision-engine-trust design note.
		fallthrough

	case decision.Add:
		memoryID = p.storeNewMemory(ctx, em, userID, metadata, vec, result)

	case decision.Supersede:
		memoryID = p.storeNewMemory(ctx, em, userID, metadata, vec, result)
		if dec.SupersedesMemoryID != "" {
			if _, err := p.Reasoning.AddRelation(ctx, memoryID, dec.SupersedesMemoryID, memory.Supports, 90, ""); err != nil {
				log.Printf("[PIPELINE] supersede relation %s->%s failed: %v", memoryID, dec.SupersedesMemoryID, err)
			} else {
				result.ReasoningRelationsCreated++
			}
		}

	case decision.Contradict:
		memoryID = p.storeNewMemory(ctx, em, userID, metadata, vec, result)
		if dec.ContradictsMemoryID != "" {
			if _, err := p.Reasoning.AddRelation(ctx, memoryID, dec.ContradictsMemoryID, memory.Contradicts, 80, ""); err != nil {
				log.Printf("[PIPELINE] contradiction relation %s->%s failed: %v", memoryID, dec.ContradictsMemoryID, err)
			} else {
				result.ReasoningRelationsCreated++
			}
		}

	case decision.Delete:
		if dec.TargetMemoryID != "" {
			if err := p.Store.DeleteMemory(ctx, dec.TargetMemoryID); err != nil {
				log.Printf("[PIPELINE] deleteMemory(%s) failed: %v", dec.TargetMemoryID, err)
			} else {
				result.Deleted = append(result.Deleted, dec.TargetMemoryID)
			}
		}
		memoryID = p.storeNewMemory(ctx, em, userID, metadata, vec, result)

	default:
		memoryID = p.storeNewMemory(ctx, em, userID, metadata, vec, result)
	}

	result.EntitiesLinked += p.linkEntities(ctx, em, extracted, memoryID)
	p.linkOntology(ctx, em.Text, em.MemoryType, memoryID)

	return memoryID, memoryID != ""
}

// storeNewMemory mints an external id, persists the memory, then
// best-effort persists its embedding and ownership link. Long content is
// split by the chunking manager and the chunks are counted in
// ChunksCreated; the chunks themselves are not written to the store.
func (p *Pipeline) storeNewMemory(ctx context.Context, em extract.ExtractedMemory, userID string, metadata map[string]string, vec []float64, result *AddMemoryResult) string {
	externalID := memory.NewMemoryID()

	internalID, err := p.Store.AddMemory(ctx, store.AddMemoryInput{
		ExternalID: externalID,
		OwnerID:    userID,
		Content:    em.Text,
		MemoryType: em.MemoryType,
		Certainty:  memory.ClampPercent(em.Certainty),
		Importance: memory.ClampPercent(em.Importance),
		Source:     "conversation",
		Metadata:   metadata,
	})
	if err != nil {
		log.Printf("[PIPELINE] addMemory failed: %v", err)
		result.Skipped++
		return ""
	}

	now := time.Now()
	if err := p.Store.AddMemoryEmbedding(ctx, internalID, vec, p.Embedder.Model(), now); err != nil {
		log.Printf("[PIPELINE] addMemoryEmbedding(%s) failed (best-effort): %v", internalID, err)
	}
	if err := p.Store.LinkUserToMemory(ctx, userID, externalID, ""); err != nil {
		log.Printf("[PIPELINE] linkUserToMemory(%s, %s) failed (best-effort): %v", userID, externalID, err)
	}

	if p.Chunking.ShouldChunk(em.Text) {
		_, count := p.Chunking.AddMemoryWithChunking(externalID, em.Text)
		result.ChunksCreated += count
	}

	result.Added = append(result.Added, externalID)
	return externalID
}

func (p *Pipeline) linkEntities(ctx context.Context, em extract.ExtractedMemory, extracted extract.Result, memoryID string) int {
	if memoryID == "" {
		return 0
	}
	byID := make(map[string]extract.ExtractedEntity, len(extracted.Entities))
	for _, e := range extracted.Entities {
		byID[e.ID] = e
	}

	count := 0
	for _, entityID := range em.EntityIDs {
		ee, ok := byID[entityID]
		if !ok {
			continue
		}
		ent, err := p.Entity.GetOrCreateEntity(ctx, ee.Name, ee.Type, ee.Attributes)
		if err != nil {
			log.Printf("[PIPELINE] entity %q linking failed: %v", ee.Name, err)
			continue
		}
		if err := p.Entity.LinkToMemory(ctx, ent.ID, memoryID, "EXTRACTED_ENTITY", 80, 50, "neutral"); err != nil {
			log.Printf("[PIPELINE] entity %q linking to memory %s failed: %v", ee.Name, memoryID, err)
			continue
		}
		count++
	}
	return count
}

func (p *Pipeline) linkOntology(ctx context.Context, text, memType, memoryID string) {
	if memoryID == "" {
		return
	}
	for _, m := range p.Ontology.MapMemoryToConcepts(text, memType) {
		confidence := memory.ClampPercent(int(m.Confidence * 100))
		if err := p.Store.LinkMemoryToInstanceOf(ctx, memoryID, m.Concept.ID, confidence); err != nil {
			log.Printf("[PIPELINE] ontology link %s->%s failed: %v", memoryID, m.Concept.ID, err)
		}
	}
}

func (p *Pipeline) resolveCrossMemoryRelations(ctx context.Context, relations []extract.ExtractedRelation, contentToID map[string]string, result *AddMemoryResult) {
	for _, r := range relations {
		fromID, ok := resolveContentID(contentToID, r.FromMemoryContent)
		if !ok {
			log.Printf("[PIPELINE] cross-memory relation: could not resolve from-content %q", truncate(r.FromMemoryContent, 40))
			continue
		}
		toID, ok := resolveContentID(contentToID, r.ToMemoryContent)
		if !ok {
			log.Printf("[PIPELINE] cross-memory relation: could not resolve to-content %q", truncate(r.ToMemoryContent, 40))
			continue
		}
		rtype := memory.ParseReasoningType(r.RelationType)
		if _, err := p.Reasoning.AddRelation(ctx, fromID, toID, rtype, 80, ""); err != nil {
			log.Printf("[PIPELINE] cross-memory relation %s->%s failed: %v", fromID, toID, err)
			continue
		}
		result.ReasoningRelationsCreated++
	}
}

// resolveContentID maps content to a previously-minted id by exact
// case-insensitive match first, then substring containment either
// direction (a known-lossy fallback — preserved intentionally).
func resolveContentID(contentToID map[string]string, content string) (string, bool) {
	key := normalizeContent(content)
	if id, ok := contentToID[key]; ok {
		return id, true
	}
	for k, id := range contentToID {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return id, true
		}
	}
	return "", false
}

func normalizeContent(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// searchCandidates runs a contextual-mode search (limit 5) for near-duplicate
// neighbors, converting results into the decision engine's input shape.
func (p *Pipeline) searchCandidates(ctx context.Context, text, userID string, vec []float64) ([]decision.SimilarMemory, error) {
	results, _, err := p.Search.SmartSearch(ctx, text, vec, userID, search.ModeContextual, 5)
	if err != nil {
		return nil, err
	}
	out := make([]decision.SimilarMemory, 0, len(results))
	for _, r := range results {
		out = append(out, decision.SimilarMemory{MemoryID: r.MemoryID, Content: r.Content, Score: r.Combined})
	}
	return out, nil
}

// UpdateMemory re-embeds new content, persists it by internal id, and
// best-effort re-inserts the embedding.
func (p *Pipeline) UpdateMemory(ctx context.Context, id, newContent, userID string) error {
	vec, err := p.Embedder.Generate(ctx, newContent, true)
	if err != nil {
		return memory.NewError(memory.KindEmbedding, "update_memory", err)
	}

	rec, err := p.Store.GetMemory(ctx, id)
	if err != nil {
		return memory.NewError(memory.KindOperation, "update_memory", err)
	}

	now := time.Now()
	if err := p.Store.UpdateMemoryByID(ctx, rec.InternalID, newContent, 80, 50, now); err != nil {
		return memory.NewError(memory.KindDatabase, "update_memory", err)
	}

	if err := p.Store.AddMemoryEmbedding(ctx, rec.InternalID, vec, p.Embedder.Model(), now); err != nil {
		log.Printf("[PIPELINE] update_memory: best-effort embedding re-insert failed: %v", err)
	}
	return nil
}

// DeleteMemory removes a memory by id.
func (p *Pipeline) DeleteMemory(ctx context.Context, id string) error {
	if err := p.Store.DeleteMemory(ctx, id); err != nil {
		return memory.NewError(memory.KindDatabase, "delete_memory", err)
	}
	return nil
}

// GetMemoryGraph BFS-walks the reasoning graph from memoryID (or, if nil,
// from the first 10 of the user's memories) to depth levels, emitting edges
// in both directions. relation_out edges are relabeled SUPPORTS in this
// public view, though the underlying store neighborhood is MEMORY_RELATION.
func (p *Pipeline) GetMemoryGraph(ctx context.Context, userID string, memoryID *string, depth int) (Graph, error) {
	var roots []string
	if memoryID != nil {
		roots = []string{*memoryID}
	} else {
		recs, err := p.Store.GetUserMemories(ctx, userID, 10)
		if err != nil {
			return Graph{}, memory.NewError(memory.KindDatabase, "get_memory_graph", err)
		}
		for _, r := range recs {
			roots = append(roots, r.MemoryID)
		}
	}

	visited := make(map[string]bool, len(roots))
	for _, r := range roots {
		visited[r] = true
	}

	var edges []GraphEdge
	queue := roots
	for level := 0; level < depth && len(queue) > 0; level++ {
		var next []string
		for _, id := range queue {
			conns, err := p.Store.GetMemoryLogicalConnections(ctx, id)
			if err != nil {
				log.Printf("[PIPELINE] get_memory_graph: getMemoryLogicalConnections(%s) failed: %v", id, err)
				continue
			}
			next = append(next, graphLevel(id, conns, visited, &edges)...)
		}
		queue = next
	}

	nodes := make([]string, 0, len(visited))
	for id := range visited {
		nodes = append(nodes, id)
	}
	return Graph{NodeIDs: nodes, Edges: edges}, nil
}

func graphLevel(id string, conns store.LogicalConnections, visited map[string]bool, edges *[]GraphEdge) []string {
	var fresh []string
	visitNeighbor := func(n store.Neighbor) {
		if !visited[n.MemoryID] {
			visited[n.MemoryID] = true
			fresh = append(fresh, n.MemoryID)
		}
	}
	emitOut := func(typ string, neighbors []store.Neighbor) {
		for _, n := range neighbors {
			*edges = append(*edges, GraphEdge{FromID: id, ToID: n.MemoryID, Type: typ})
			visitNeighbor(n)
		}
	}
	emitIn := func(typ string, neighbors []store.Neighbor) {
		for _, n := range neighbors {
			*edges = append(*edges, GraphEdge{FromID: n.MemoryID, ToID: id, Type: typ})
			visitNeighbor(n)
		}
	}

	emitOut("IMPLIES", conns.ImpliesOut)
	emitIn("IMPLIES", conns.ImpliesIn)
	emitOut("BECAUSE", conns.BecauseOut)
	emitIn("BECAUSE", conns.BecauseIn)
	emitOut("CONTRADICTS", conns.ContradictsOut)
	emitIn("CONTRADICTS", conns.ContradictsIn)
	emitOut("SUPPORTS", conns.RelationOut) // public view normalizes MEMORY_RELATION to SUPPORTS
	emitIn("SUPPORTS", conns.RelationIn)

	return fresh
}

// SearchReasoningChain embeds query, seeds with a contextual search, and
// walks a reasoning chain from each seed.
func (p *Pipeline) SearchReasoningChain(ctx context.Context, query, userID, chainType string, limit, maxDepth int) (ReasoningChainResult, error) {
	vec, err := p.Embedder.Generate(ctx, query, true)
	if err != nil {
		return ReasoningChainResult{}, memory.NewError(memory.KindEmbedding, "search_reasoning_chain", err)
	}
	seeds, _, err := p.Search.SmartSearch(ctx, query, vec, userID, search.ModeContextual, limit)
	if err != nil {
		return ReasoningChainResult{}, err
	}

	var out ReasoningChainResult
	for _, seed := range seeds {
		chain, err := p.Reasoning.GetChain(ctx, seed.MemoryID, chainType, maxDepth)
		if err != nil {
			log.Printf("[PIPELINE] search_reasoning_chain: get_chain(%s) failed: %v", seed.MemoryID, err)
			continue
		}
		if len(chain.Steps) == 0 {
			continue
		}
		out.Chains = append(out.Chains, chain)
		out.TotalMemories += len(chain.Steps)
		if len(chain.Steps) > out.DeepestChain {
			out.DeepestChain = len(chain.Steps)
		}
	}
	return out, nil
}

// SearchByConcept runs a contextual search over 3*limit candidates and keeps
// those linked (or ontology-mappable) to conceptType, optionally further
// filtered by comma-separated tags matched as content substrings.
func (p *Pipeline) SearchByConcept(ctx context.Context, query, userID, conceptType, tags string, limit int) ([]search.Result, error) {
	vec, err := p.Embedder.Generate(ctx, query, true)
	if err != nil {
		return nil, memory.NewError(memory.KindEmbedding, "search_by_concept", err)
	}
	candidates, _, err := p.Search.SmartSearch(ctx, query, vec, userID, search.ModeContextual, 3*limit)
	if err != nil {
		return nil, err
	}

	var tagList []string
	for _, t := range strings.Split(tags, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tagList = append(tagList, t)
		}
	}

	var out []search.Result
	for _, c := range candidates {
		if !p.matchesConcept(ctx, c, conceptType) {
			continue
		}
		if len(tagList) > 0 && !matchesAnyTag(c.Content, tagList) {
			continue
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (p *Pipeline) matchesConcept(ctx context.Context, c search.Result, conceptType string) bool {
	links, err := p.Store.GetMemoryConcepts(ctx, c.MemoryID)
	if err == nil {
		for _, ref := range append(append([]store.ConceptRef{}, links.InstanceOf...), links.BelongsTo...) {
			if strings.EqualFold(ref.Name, conceptType) || strings.EqualFold(ref.ID, conceptType) {
				return true
			}
		}
	}
	for _, m := range p.Ontology.MapMemoryToConcepts(c.Content, "") {
		if strings.EqualFold(m.Concept.Name, conceptType) || strings.EqualFold(m.Concept.ID, conceptType) {
			return true
		}
	}
	return false
}

func matchesAnyTag(content string, tagList []string) bool {
	lower := strings.ToLower(content)
	for _, t := range tagList {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
