//go:build dlib

package face

import (
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider/dlib"
)

func init() {
	newDlibProvider = func(modelsDir string) (provider.FaceProvider, error) {
		return dlib.NewProvider(modelsDir)
	}
}
