// internal/common/testutil/zeebe.go
package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

// FakeGateway records the job commands a handler sends. Only CompleteJob,
// FailJob and ThrowError are implemented; any other call panics.
type FakeGateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	Completed []*pb.CompleteJobRequest
	Failed    []*pb.FailJobRequest
	Thrown    []*pb.ThrowErrorRequest

	// SendErr, when set, is returned from every command.
	SendErr error
}

func (g *FakeGateway) CompleteJob(ctx context.Context, req *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Completed = append(g.Completed, req)
	return &pb.CompleteJobResponse{}, g.SendErr
}

func (g *FakeGateway) FailJob(ctx context.Context, req *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Failed = append(g.Failed, req)
	return &pb.FailJobResponse{}, g.SendErr
}

func (g *FakeGateway) ThrowError(ctx context.Context, req *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Thrown = append(g.Thrown, req)
	return &pb.ThrowErrorResponse{}, g.SendErr
}

var noRetry = func(context.Context, error) bool { return false }

// JobClient implements worker.JobClient on top of a FakeGateway.
type JobClient struct {
	Gateway *FakeGateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &FakeGateway{}}
}

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// NewJob builds an activated job carrying vars as its variables document.
func NewJob(taskType, vars string, retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                2251799813685249,
		Type:               taskType,
		ProcessInstanceKey: 2251799813685001,
		BpmnProcessId:      "job-posting-review",
		ElementId:          "Activity_" + taskType,
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            retries,
		Variables:          vars,
	}}
}

// CompletedVariables decodes the variables of the only completed job into out.
func CompletedVariables(t *testing.T, c *JobClient, out interface{}) {
	t.Helper()
	require.Len(t, c.Gateway.Completed, 1, "expected exactly one completed job")
	require.Len(t, c.Gateway.Failed, 0)
	require.Len(t, c.Gateway.Thrown, 0)
	require.NoError(t, json.Unmarshal([]byte(c.Gateway.Completed[0].Variables), out))
}

// ThrownCode returns the BPMN error code of the only thrown error.
func ThrownCode(t *testing.T, c *JobClient) string {
	t.Helper()
	require.Len(t, c.Gateway.Thrown, 1, "expected exactly one thrown error")
	require.Len(t, c.Gateway.Completed, 0)
	return c.Gateway.Thrown[0].ErrorCode
}
