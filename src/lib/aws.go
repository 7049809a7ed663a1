package lib

import (
	"context"
	"sync"

	"voyagemate/src/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

var (
	awsConfig     *aws.Config
	awsConfigOnce sync.Once
	awsConfigErr  error
)

func awsGetSdkConfig() (*aws.Config, error) {
	awsConfigOnce.Do(func() {
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			logger.L.Error("error loading default aws config", zap.Error(err))
			awsConfigErr = err
			return
		}
		awsConfig = &cfg
	})
	return awsConfig, awsConfigErr
}

func AWSGetS3Client() (*s3.Client, error) {
	cfg, err := awsGetSdkConfig()
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(*cfg), nil
}

func AWSGetSQSClient() (*sqs.Client, error) {
	cfg, err := awsGetSdkConfig()
	if err != nil {
		return nil, err
	}
	return sqs.NewFromConfig(*cfg), nil
}

func AWSGetSESClient() (*ses.Client, error) {
	cfg, err := awsGetSdkConfig()
	if err != nil {
		return nil, err
	}
	return ses.NewFromConfig(*cfg), nil
}
