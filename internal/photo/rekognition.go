package photo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// labelDetector is the slice of the Rekognition client the gate uses.
type labelDetector interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// foodLabels are Rekognition labels that mean a plate is worth estimating.
var foodLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "dinner": true, "lunch": true,
	"breakfast": true, "fruit": true, "vegetable": true, "produce": true,
	"beverage": true, "drink": true, "dessert": true, "bread": true,
	"meat": true, "seafood": true, "snack": true,
}

// Gate runs AWS Rekognition label detection first and only forwards images
// that show food to the estimator.
type Gate struct {
	detector labelDetector
	next     Analyzer
}

// NewRekognitionGate builds a gate in front of next using the default AWS
// credential chain.
func NewRekognitionGate(ctx context.Context, region string, next Analyzer) (*Gate, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrMisconfigured, err)
	}
	return &Gate{detector: rekognition.NewFromConfig(cfg), next: next}, nil
}

func (g *Gate) Analyze(ctx context.Context, image []byte) (Result, error) {
	if len(image) == 0 {
		return NoFood(), nil
	}
	out, err := g.detector.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(70),
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: detect labels: %v", ErrUnavailable, err)
	}
	if !hasFood(out.Labels) {
		return NoFood(), nil
	}
	return g.next.Analyze(ctx, image)
}

func hasFood(labels []types.Label) bool {
	for _, l := range labels {
		if l.Name != nil && foodLabels[strings.ToLower(*l.Name)] {
			return true
		}
		for _, p := range l.Parents {
			if p.Name != nil && foodLabels[strings.ToLower(*p.Name)] {
				return true
			}
		}
	}
	return false
}
