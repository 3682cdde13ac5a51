package sqsgath

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSender) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m1")}, nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSendsPlainJSON(t *testing.T) {
	client := &fakeSender{}
	g := New(client, "https://sqs.example/queue", false, quiet)
	g.SkipStudent("run-1", roster.Student{Name: "Ann", LoginID: "a1"})

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "https://sqs.example/queue", aws.ToString(in.QueueUrl))
	assert.Equal(t, string(api.SkipStudentMsg), aws.ToString(in.MessageAttributes["MsgType"].StringValue))

	var msg api.SkipStudent
	require.NoError(t, api.Decode([]byte(aws.ToString(in.MessageBody)), false, &msg))
	assert.Equal(t, "a1", msg.Student.LoginId)
	assert.Equal(t, api.SkipStudentMsg, msg.MsgType)
}

func TestSendsCompressedBase64(t *testing.T) {
	client := &fakeSender{}
	g := New(client, "q", true, quiet)
	g.StartStudent("run-1", roster.Student{LoginID: "a1"}, "/tmp/a.c")

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, api.ContentEncodingSnappy, aws.ToString(in.MessageAttributes["ContentEncoding"].StringValue))

	raw, err := base64.StdEncoding.DecodeString(aws.ToString(in.MessageBody))
	require.NoError(t, err)
	var msg api.StartStudent
	require.NoError(t, api.Decode(raw, true, &msg))
	assert.Equal(t, "/tmp/a.c", msg.File)
}

func TestSendFailureIsLogged(t *testing.T) {
	client := &fakeSender{err: errors.New("throttled")}
	g := New(client, "q", false, quiet)
	assert.NotPanics(t, func() {
		g.SkipStudent("run-1", roster.Student{LoginID: "a1"})
	})
}
