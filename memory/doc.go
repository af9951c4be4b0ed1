// Package memory is the cortex memory substrate's core data model (Memory,
// Embedding, Entity, Concept, ReasoningRelation, Chunk). The Pipeline type
// that orchestrates ingestion (extract, decide, persist, cross-link) and the
// read-side helpers layered on the search and reasoning packages live in
// package pipeline.
//
// Architecture:
//   - memory: data model, ids, error taxonomy
//   - pipeline: write pipeline orchestrator and read-side operations
//   - store: graph+vector persistence interface, with an HTTP production
//     client and an in-process local implementation
//   - search: vector/lexical/hybrid/graph-expansion retrieval
//   - reasoning: typed relation persistence and chain walking
//   - llm, embed, extract, decision, entity, ontology, chunking: the
//     collaborator interfaces the pipeline consumes, each with a default
//     SDK implementation
//
// Local SDK implementation:
//   - store/localstore (chromem-go vector backend + in-memory graph)
//   - embed/mock, llm.MockProvider for offline testing
//
// Production implementation:
//   - store/httpstore (JSON-over-HTTP to the graph+vector store)
//   - llm.AnthropicProvider, embed/httpembedder
package memory
