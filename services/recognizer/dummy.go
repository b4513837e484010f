package recognizersvc

import (
	"context"

	"github.com/mahudhurio/backend/core"
)

// DummyService returns canned recognitions; used in tests and when running
// without a recognizer deployment.
type DummyService struct {
	Result core.Recognition
	Err    error
}

var _ core.RecognizerService = (*DummyService)(nil)

func NewDummyService(names ...string) *DummyService {
	faces := make([]core.Face, 0, len(names))
	for _, name := range names {
		faces = append(faces, core.Face{Name: name, Confidence: 0.9})
	}
	return &DummyService{
		Result: core.Recognition{
			Status:        "success",
			FacesDetected: len(faces),
			Results:       faces,
		},
	}
}

func (svc *DummyService) Recognize(context.Context, []byte) (core.Recognition, error) {
	if svc.Err != nil {
		return core.Recognition{}, svc.Err
	}
	return svc.Result, nil
}
