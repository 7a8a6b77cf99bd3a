package library

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"pageforge/model"
	"pageforge/placeholder"
	"pageforge/store"
)

// AddImage stores data as a data URL under the alias derived from name.
func (l *Library) AddImage(ctx context.Context, name string, data []byte) (*model.Image, error) {
	id, err := newId("img_")
	if err != nil {
		return nil, err
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%s is not an image (%s)", name, mediaType)
	}
	img := &model.Image{
		Id:      id,
		Name:    name,
		Alias:   placeholder.ImageAlias("", name),
		DataUrl: "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	if err := store.PutJSON(ctx, l.store, store.Images, id, img); err != nil {
		return nil, err
	}
	l.log.Info("Image added", zap.String("name", name), zap.String("alias", img.Alias))
	return img, nil
}

// ImageMap maps every image alias, lower-cased, to its data URL.
func (l *Library) ImageMap(ctx context.Context) (map[string]string, error) {
	images, err := store.AllJSON[model.Image](ctx, l.store, store.Images)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(images))
	for _, img := range images {
		out[placeholder.ImageAlias(img.Alias, img.Name)] = img.DataUrl
	}
	return out, nil
}
