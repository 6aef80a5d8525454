package oracle

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/OldStager01/scaling-advisor/internal/logger"
)

const DefaultModelID = "amazon.nova-lite-v1:0"

type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockOracle sends the prompt as a single user turn through the
// Converse API and returns the first text block of the reply.
type BedrockOracle struct {
	client  ConverseAPI
	modelID string
}

type BedrockConfig struct {
	ModelID  string
	Region   string
	Endpoint string
	Client   ConverseAPI
}

func NewBedrockOracle(ctx context.Context, cfg BedrockConfig) (*BedrockOracle, error) {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.Client != nil {
		return &BedrockOracle{client: cfg.Client, modelID: cfg.ModelID}, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &BedrockOracle{client: client, modelID: cfg.ModelID}, nil
}

func (o *BedrockOracle) Name() string { return "bedrock:" + o.modelID }

func (o *BedrockOracle) Invoke(ctx context.Context, req Request) (string, error) {
	inference := req.Inference
	if inference.MaxTokens <= 0 {
		inference.MaxTokens = DefaultMaxTokens
	}

	out, err := o.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(o.modelID),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: req.Prompt}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(inference.Temperature),
			MaxTokens:   aws.Int32(inference.MaxTokens),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: converse %s: %v", ErrInvocationFailed, o.modelID, err)
	}

	if out.Usage != nil {
		logger.FromContext(ctx).WithFields(map[string]interface{}{
			"model":         o.modelID,
			"input_tokens":  aws.ToInt32(out.Usage.InputTokens),
			"output_tokens": aws.ToInt32(out.Usage.OutputTokens),
			"stop_reason":   string(out.StopReason),
		}).Debug("Oracle replied")
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", nil
	}
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			return text.Value, nil
		}
	}
	return "", nil
}
