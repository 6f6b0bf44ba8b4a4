package media

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestS3UploaderAgainstMinIO(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MinIO container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	up, err := NewS3Uploader(ctx, S3Config{
		Region:    "us-east-1",
		Endpoint:  endpoint,
		Bucket:    "tubetab-test",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Prefix:    "avatars",
	})
	require.NoError(t, err)
	require.NoError(t, up.EnsureBucket(ctx))
	require.NoError(t, up.Ping(ctx))

	asset, err := up.Upload(ctx, writeTemp(t, "avatar", pngHeader))
	require.NoError(t, err)
	require.Equal(t, endpoint+"/tubetab-test/"+asset.Key, asset.URL)

	// Buckets are private by default, so read back through the API instead
	// of the public URL.
	client, ok := up.api.(*s3.Client)
	require.True(t, ok)
	obj, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String("tubetab-test"),
		Key:    aws.String(asset.Key),
	})
	require.NoError(t, err)
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.Equal(t, pngHeader, body)
	require.Equal(t, "image/png", aws.ToString(obj.ContentType))
}
