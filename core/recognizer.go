package core

import "context"

// UnknownFace is the name the recognizer reports for a face it could not
// match to any registered student. Such sightings never count as presence.
const UnknownFace = "Unknown"

type (
	// Face is a single detection within a recognized image.
	Face struct {
		Name        string  `json:"name"`
		Confidence  float64 `json:"confidence"`
		BoundingBox []int   `json:"bounding_box,omitempty"`
		Error       string  `json:"error,omitempty"`
	}

	// Recognition is the recognizer's verdict on one submitted image.
	Recognition struct {
		Status        string `json:"status"`
		Message       string `json:"message,omitempty"`
		FacesDetected int    `json:"faces_detected"`
		Results       []Face `json:"results"`
	}

	// RecognizerService is the external face-recognition collaborator.
	// Recognition itself (model, matching) happens out of process.
	RecognizerService interface {
		Recognize(ctx context.Context, image []byte) (Recognition, error)
	}
)

// Names returns the matched face names, dropping unmatched and errored faces.
func (r Recognition) Names() []string {
	names := make([]string, 0, len(r.Results))
	for _, f := range r.Results {
		if f.Name != "" && f.Name != UnknownFace && f.Error == "" {
			names = append(names, f.Name)
		}
	}
	return names
}
