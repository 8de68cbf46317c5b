package model

import "time"

// AnalysisResult is the full output of one pipeline run: every sampled
// container's schema plus the scored relationship graph between them.
type AnalysisResult struct {
	Databases      []string
	Schemas        map[ContainerIdentity]*ContainerSchema
	Relationships  []*Relationship
	Timestamp      time.Time
	SampleSize     int
	ContainerOrder []ContainerIdentity // catalog enumeration order

	// ContainerFailures records per-container sampling failures (§7
	// "Transient collaborator error"); a failed container contributes no
	// schema and no relationships but does not fail the run.
	ContainerFailures []ContainerFailure
}

// ContainerFailure pairs a container identity with the error encountered
// while sampling it.
type ContainerFailure struct {
	Container ContainerIdentity
	Err       error
}

// SnapshotMetadata is the envelope recorded alongside a saved snapshot.
type SnapshotMetadata struct {
	ID                string
	Name              string // optional
	CreatedAt         time.Time
	SampleSize        int
	Databases         []string
	ContainerCount    int
	RelationshipCount int
	Checksum          string
}

// Snapshot is the persisted form of an AnalysisResult.
type Snapshot struct {
	Version       string
	Metadata      SnapshotMetadata
	Databases     []string
	Schemas       map[ContainerIdentity]*ContainerSchema
	Relationships []*Relationship
}

const SnapshotVersion = "1.0"
