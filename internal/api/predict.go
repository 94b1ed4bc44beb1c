package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tilevision/segserve/internal/app"
	"github.com/tilevision/segserve/internal/dataset"
	"github.com/tilevision/segserve/internal/db/models"
)

type labelPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func legendPayload(labels []dataset.Label) []labelPayload {
	payload := make([]labelPayload, 0, len(labels))
	for _, l := range labels {
		payload = append(payload, labelPayload{Name: l.Name, Color: l.Color.CSS()})
	}
	return payload
}

// DemoImageSelector hands demo_predictor.js a new random sample for the
// current dataset.
func DemoImageSelector(c *gin.Context) {
	app := appFrom(c)
	datasetName := c.Query("dataset")

	ds, err := dataset.Get(datasetName, app.Config().ImageSize)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	sample, err := app.Samples().Random(datasetName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"image_filename":      sampleImageURL(datasetName, sample),
		"label_filename":      sampleLabelURL(datasetName, sample),
		"sample":              sample.Name,
		"ground_truth_labels": legendPayload(groundTruthLabels(app, ds, sample)),
	})
}

type predictRequest struct {
	Dataset string `json:"dataset"`
	Model   string `json:"model"`
	Sample  string `json:"sample"`
}

// Predict runs inference on the requested sample (or a random one) and
// returns the stored prediction image with its legend.
func Predict(c *gin.Context) {
	app := appFrom(c)

	var req predictRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to parse request body"})
		return
	}

	ds, err := dataset.Get(req.Dataset, app.Config().ImageSize)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	var sample dataset.Sample
	if req.Sample != "" {
		sample, err = app.Samples().Resolve(req.Dataset, req.Sample)
	} else {
		sample, err = app.Samples().Random(req.Dataset)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	result, err := runPrediction(c.Request.Context(), app, ds, req.Model, sample)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dataset":            req.Dataset,
		"model":              req.Model,
		"sample":             sample.Name,
		"predicted_filename": result.URL,
		"predicted_labels":   legendPayload(result.Labels),
	})
}

type predictionResult struct {
	URL    string
	Labels []dataset.Label
}

func runPrediction(ctx context.Context, app *app.App, ds *dataset.Dataset, modelName string, sample dataset.Sample) (predictionResult, error) {
	p, err := app.Predictors().Get(modelName)
	if err != nil {
		return predictionResult{}, err
	}

	img, err := loadImage(sample.ImagePath)
	if err != nil {
		return predictionResult{}, err
	}

	start := time.Now()
	mask, err := p.Predict(ctx, img)
	if err != nil {
		return predictionResult{}, err
	}
	duration := time.Since(start)

	content, err := dataset.EncodePNG(dataset.BuildLabelImage(mask, ds))
	if err != nil {
		return predictionResult{}, fmt.Errorf("failed to encode prediction: %w", err)
	}

	response := make(chan string, 1)
	app.Uploader().UploadBytes(content, ".png", response)

	url, ok := <-response
	if !ok {
		return predictionResult{}, fmt.Errorf("failed to store prediction image")
	}

	recordPrediction(ctx, app, ds, modelName, sample, url, duration)

	return predictionResult{URL: url, Labels: dataset.LabelsInMask(mask, ds)}, nil
}

func recordPrediction(ctx context.Context, app *app.App, ds *dataset.Dataset, modelName string, sample dataset.Sample, url string, duration time.Duration) {
	if app.PredictionRepository == nil {
		return
	}

	_, err := app.PredictionRepository.Create(ctx, &models.Prediction{
		ID:         uuid.New(),
		Dataset:    ds.Name,
		Model:      modelName,
		Sample:     sample.Name,
		ResultUrl:  url,
		DurationMs: duration.Milliseconds(),
	})
	if err != nil {
		app.Logger.Error("failed to record prediction", zap.Error(err))
	}
}
