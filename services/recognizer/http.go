// Package recognizersvc talks to the external face-recognition service.
// Recognition (detection, embedding, matching) is entirely that service's
// concern; this client only ships images and decodes verdicts.
package recognizersvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
)

type httpService struct {
	url    string
	client *http.Client
}

var _ core.RecognizerService = (*httpService)(nil)

func NewHTTPService(conf *core.Config) *httpService {
	return &httpService{
		url:    strings.TrimRight(conf.Recognizer.URL, "/") + "/recognize",
		client: &http.Client{Timeout: conf.Recognizer.Timeout},
	}
}

func (svc *httpService) Recognize(ctx context.Context, image []byte) (core.Recognition, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return core.Recognition{}, errors.Wrap(err, "building multipart body")
	}
	if _, err = part.Write(image); err != nil {
		return core.Recognition{}, errors.Wrap(err, "writing image part")
	}
	if err = w.Close(); err != nil {
		return core.Recognition{}, errors.Wrap(err, "closing multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.url, body)
	if err != nil {
		return core.Recognition{}, errors.Wrap(err, "building recognizer request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := svc.client.Do(req)
	if err != nil {
		return core.Recognition{}, errors.Wrap(err, "calling recognizer")
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return core.Recognition{}, errors.Wrap(err, "reading recognizer response")
	}

	var recog core.Recognition
	if err = json.Unmarshal(data, &recog); err != nil {
		return core.Recognition{}, errors.Wrapf(err, "decoding recognizer response (HTTP %d)", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := recog.Message
		if msg == "" {
			msg = fmt.Sprintf("recognizer responded %d", resp.StatusCode)
		}
		return recog, errors.New(msg)
	}
	return recog, nil
}
