package engine

import (
	"context"
	"database/sql"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"qv/internal/logging"
)

// setupRemote prepares the connection for object-store and HTTP sources:
// the httpfs extension for transport, plus a credential secret when the
// scheme needs one.
func (e *Executor) setupRemote(ctx context.Context, conn *sql.Conn, scheme string) error {
	for _, stmt := range []string{"INSTALL httpfs", "LOAD httpfs"} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return wrapExec("load httpfs extension", err)
		}
	}

	switch scheme {
	case "s3":
		return e.createS3Secret(ctx, conn)
	case "gs":
		return e.createGCSSecret(ctx, conn)
	default:
		return nil
	}
}

// createS3Secret resolves credentials through the AWS default chain (env,
// shared config, IMDS) and hands them to DuckDB as a secret. Resolution
// failures are non-fatal: public buckets and DuckDB's own env discovery
// still work without a secret.
func (e *Executor) createS3Secret(ctx context.Context, conn *sql.Conn) error {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if e.cfg.S3Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(e.cfg.S3Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		e.logger.Warn("aws config load failed, continuing without s3 secret", logging.Error(err))
		return nil
	}
	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		e.logger.Warn("aws credential resolution failed, continuing without s3 secret", logging.Error(err))
		return nil
	}

	parts := []string{
		"TYPE s3",
		"KEY_ID " + quoteLiteral(creds.AccessKeyID),
		"SECRET " + quoteLiteral(creds.SecretAccessKey),
	}
	if creds.SessionToken != "" {
		parts = append(parts, "SESSION_TOKEN "+quoteLiteral(creds.SessionToken))
	}
	if awsCfg.Region != "" {
		parts = append(parts, "REGION "+quoteLiteral(awsCfg.Region))
	}

	stmt := "CREATE OR REPLACE SECRET qv_s3 (" + strings.Join(parts, ", ") + ")"
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return wrapExec("create s3 secret", err)
	}
	e.logger.Debug("s3 secret registered", logging.String("region", awsCfg.Region))
	return nil
}

// createGCSSecret registers HMAC credentials for gs:// sources when the
// conventional env vars are set; otherwise DuckDB's own discovery applies.
func (e *Executor) createGCSSecret(ctx context.Context, conn *sql.Conn) error {
	keyID := strings.TrimSpace(os.Getenv("GCS_KEY_ID"))
	secret := strings.TrimSpace(os.Getenv("GCS_SECRET"))
	if keyID == "" || secret == "" {
		e.logger.Debug("no GCS_KEY_ID/GCS_SECRET in environment, skipping gcs secret")
		return nil
	}

	stmt := "CREATE OR REPLACE SECRET qv_gcs (TYPE gcs, KEY_ID " +
		quoteLiteral(keyID) + ", SECRET " + quoteLiteral(secret) + ")"
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return wrapExec("create gcs secret", err)
	}
	e.logger.Debug("gcs secret registered")
	return nil
}
