package api

import (
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tilevision/segserve/internal/app"
	"github.com/tilevision/segserve/internal/dataset"
	"github.com/tilevision/segserve/internal/services/predictor"
	"github.com/tilevision/segserve/internal/templates"
)

var pages = templates.MustNew()

func appFrom(c *gin.Context) *app.App {
	return c.MustGet("app").(*app.App)
}

func HomePage(c *gin.Context) {
	app := appFrom(c)

	renderPage(c, "home", templates.HomePage{
		Datasets: dataset.Names(),
		Models:   app.Predictors().Names(),
	})
}

// DemoPage renders the demo view for one model/dataset pair: a random
// preprocessed tile, its ground-truth labels and a fresh prediction.
func DemoPage(c *gin.Context) {
	app := appFrom(c)
	modelName := c.Param("model")
	datasetName := c.Param("dataset")

	ds, err := dataset.Get(datasetName, app.Config().ImageSize)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	if _, err := app.Predictors().Get(modelName); err != nil {
		if errors.Is(err, predictor.ErrUnknownModel) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	sample, err := app.Samples().Random(datasetName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	groundTruth := groundTruthLabels(app, ds, sample)

	result, err := runPrediction(c.Request.Context(), app, ds, modelName, sample)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	renderPage(c, "demo", templates.DemoPage{
		Model:             modelName,
		Dataset:           datasetName,
		ImageURL:          sampleImageURL(datasetName, sample),
		LabelURL:          sampleLabelURL(datasetName, sample),
		PredictedURL:      result.URL,
		GroundTruthLabels: templates.Legend(groundTruth),
		PredictedLabels:   templates.Legend(result.Labels),
	})
}

func renderPage(c *gin.Context, page string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	if err := pages.Render(c.Writer, page, data); err != nil {
		appFrom(c).Logger.Error("failed to render page",
			zap.String("page", page), zap.Error(err))
	}
}

func sampleImageURL(datasetName string, sample dataset.Sample) string {
	return fmt.Sprintf("/data/%s/images/%s", datasetName, sample.Name)
}

func sampleLabelURL(datasetName string, sample dataset.Sample) string {
	return fmt.Sprintf("/data/%s/labels/%s", datasetName, sample.Name)
}

// groundTruthLabels recovers the legend of a sample's label image. A
// missing or unreadable label image yields an empty legend rather than a
// failed page.
func groundTruthLabels(app *app.App, ds *dataset.Dataset, sample dataset.Sample) []dataset.Label {
	img, err := loadImage(sample.LabelPath)
	if err != nil {
		app.Logger.Warn("failed to load ground-truth labels",
			zap.String("sample", sample.Name), zap.Error(err))
		return nil
	}

	return dataset.LabelsInMask(dataset.MaskFromLabelImage(img, ds), ds)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return img, nil
}
