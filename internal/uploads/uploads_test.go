package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool \u00fcml\u00e4uts.txt", "i_contain_cool_umlauts.txt"},
		{"alice@acme.com_id.pdf", "aliceacme.com_id.pdf"},
		{`C:\docs\badge.PNG`, "C_docs_badge.PNG"},
		{"__.hidden.", "hidden"},
		{"\u65e5\u672c", ""},
		{"scan..v2.pdf", "scan..v2.pdf"},
		{"a..b@acme.com_id.pdf", "a..bacme.com_id.pdf"},
		{"alice+hr@acme.com_id.pdf", "alicehracme.com_id.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestStoredName(t *testing.T) {
	assert.Equal(t, "bobcorp.io_scan_01.jpg", StoredName("bob@corp.io", "scan 01.jpg"))

	fallback := StoredName("\u65e5@\u672c", "\u540d")
	assert.Len(t, fallback, 36)
}

func TestStoredName_RoundTrip(t *testing.T) {
	names := []struct {
		email, file string
	}{
		{"alice@acme.com", "scan..v2.pdf"},
		{"a..b@acme.com", "id.pdf"},
		{"alice+hr@acme.com", "badge.png"},
		{"bob@corp.io", "my  scan (final).jpg"},
		{"bob@corp.io", "r\u00e9sum\u00e9 \u00fcbersicht.pdf"},
		{"\u65e5@\u672c", "\u540d.pdf"},
	}

	stores := map[string]func(t *testing.T) Store{
		"local": func(t *testing.T) Store {
			store, err := NewLocalStore(t.TempDir())
			require.NoError(t, err)
			return store
		},
		"s3": func(*testing.T) Store {
			return newS3Store(&fakeS3{objects: map[string][]byte{}}, "docs", "hr_verifications")
		},
	}

	for backend, newStore := range stores {
		for _, n := range names {
			t.Run(backend+"/"+n.email+"/"+n.file, func(t *testing.T) {
				ctx := context.Background()
				store := newStore(t)

				name := StoredName(n.email, n.file)
				require.True(t, validName(name), name)
				require.NoError(t, store.Save(ctx, name, strings.NewReader("doc")))

				obj, err := store.Open(ctx, name)
				require.NoError(t, err)
				data, err := io.ReadAll(obj.Body)
				require.NoError(t, err)
				require.NoError(t, obj.Body.Close())
				assert.Equal(t, "doc", string(data))
			})
		}
	}
}

func TestLocalStore_SaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads", "hr_verifications")

	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "aliceacme.com_id.pdf", strings.NewReader("%PDF-1.4")))

	obj, err := store.Open(ctx, "aliceacme.com_id.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, int64(len("%PDF-1.4")), obj.Size)

	require.NoError(t, store.Remove(ctx, "aliceacme.com_id.pdf"))
	_, err = os.Stat(filepath.Join(dir, "aliceacme.com_id.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_OpenRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o600))

	store, err := NewLocalStore(filepath.Join(root, "docs"))
	require.NoError(t, err)

	for _, name := range []string{"../secret.txt", "..", "", "a/b.pdf", `a\b.pdf`, "missing.pdf"} {
		_, err := store.Open(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}

	assert.Error(t, store.Save(ctx, "../escape.pdf", strings.NewReader("x")))
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	now := time.Now()
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		LastModified:  &now,
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_SaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := newS3Store(fake, "docs", "hr_verifications")

	require.NoError(t, store.Save(ctx, "bobcorp.io_badge.png", strings.NewReader("png")))
	assert.Contains(t, fake.objects, "hr_verifications/bobcorp.io_badge.png")

	obj, err := store.Open(ctx, "bobcorp.io_badge.png")
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, int64(3), obj.Size)

	_, err = store.Open(ctx, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Remove(ctx, "bobcorp.io_badge.png"))
	assert.Empty(t, fake.objects)
}

func TestS3Store_SaveWrapsError(t *testing.T) {
	boom := errors.New("boom")
	store := newS3Store(&fakeS3{objects: map[string][]byte{}, putErr: boom}, "docs", "")

	err := store.Save(context.Background(), "x.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, boom)
}
