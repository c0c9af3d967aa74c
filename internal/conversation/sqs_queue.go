package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/leadline-ai/leadline/pkg/logging"
)

// SQSQueue is a turnQueue over AWS/LocalStack SQS. Jobs travel as JSON
// bodies; the SQS receipt handle rides along for acknowledgement.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
	logger   *logging.Logger
}

// NewSQSQueue creates a turn queue around the provided SQS client.
func NewSQSQueue(client *sqs.Client, queueURL string) *SQSQueue {
	if client == nil {
		panic("conversation: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("conversation: SQS queueURL cannot be empty")
	}
	return &SQSQueue{
		client:   client,
		queueURL: queueURL,
		logger:   logging.Default(),
	}
}

// Enqueue encodes the job and sends it to the queue.
func (q *SQSQueue) Enqueue(ctx context.Context, job turnJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("conversation: failed to encode turn job: %w", err)
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("conversation: failed to enqueue turn job: %w", err)
	}
	return nil
}

// Dequeue long-polls for up to maxJobs jobs. Messages whose body does not
// decode are deleted on the spot so they cannot poison the queue.
func (q *SQSQueue) Dequeue(ctx context.Context, maxJobs, waitSeconds int) ([]turnJob, error) {
	output, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: int32(maxJobs),
		WaitTimeSeconds:     int32(waitSeconds),
	})
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to receive turn jobs: %w", err)
	}

	jobs := make([]turnJob, 0, len(output.Messages))
	for _, msg := range output.Messages {
		var job turnJob
		if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &job); err != nil {
			q.logger.Error("dropping undecodable turn job",
				"error", err,
				"message_id", aws.ToString(msg.MessageId),
			)
			q.deleteMessage(ctx, aws.ToString(msg.ReceiptHandle))
			continue
		}
		job.receipt = aws.ToString(msg.ReceiptHandle)
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Ack deletes the handled job from the queue.
func (q *SQSQueue) Ack(ctx context.Context, job turnJob) error {
	if job.receipt == "" {
		return nil
	}
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(job.receipt),
	})
	if err != nil {
		return fmt.Errorf("conversation: failed to ack turn job: %w", err)
	}
	return nil
}

func (q *SQSQueue) deleteMessage(ctx context.Context, receipt string) {
	if receipt == "" {
		return
	}
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receipt),
	})
	if err != nil {
		q.logger.Error("failed to delete SQS message", "error", err)
	}
}
