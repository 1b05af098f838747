package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArtifactKind identifies which report produced an exported file.
type ArtifactKind string

const (
	ArtifactAssessmentPDF ArtifactKind = "assessment-pdf"
	ArtifactTrainingPDF   ArtifactKind = "training-pdf"
	ArtifactAnamnesePDF   ArtifactKind = "anamnese-pdf"
	ArtifactPhysicalPDF   ArtifactKind = "physical-pdf"
	ArtifactTrainingXLSX  ArtifactKind = "training-xlsx"
)

// Artifact stores metadata about an exported report.
// The file itself lives in object storage or the local export directory.
type Artifact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   string             `bson:"trainerId" json:"trainerId"`
	Kind        ArtifactKind       `bson:"kind" json:"kind"`
	ObjectKey   string             `bson:"objectKey" json:"-"`             // Key in the bucket or path on disk
	FileName    string             `bson:"fileName" json:"fileName"`       // Download name
	ContentType string             `bson:"contentType" json:"contentType"` // e.g. "application/pdf"
	Size        int64              `bson:"size" json:"size"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	URL         string             `bson:"-" json:"url,omitempty"` // Presigned download URL, not stored
}
