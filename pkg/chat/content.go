package chat

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/lumenworks/canvaschat/pkg/classify"
	"github.com/lumenworks/canvaschat/pkg/concurrent"
)

// AttachmentStore is the read side of the upload blob store.
type AttachmentStore interface {
	Get(name string) ([]byte, error)
}

// ContentMapper expands conversation messages into typed content blocks,
// loading attachment bytes from the upload store. Attachment reads for one
// message run concurrently; the resulting blocks keep attachment order.
type ContentMapper struct {
	store      AttachmentStore
	maxReaders int
}

// NewContentMapper builds a mapper reading at most maxReaders attachments at
// a time.
func NewContentMapper(store AttachmentStore, maxReaders int) *ContentMapper {
	if maxReaders <= 0 {
		maxReaders = 4
	}
	return &ContentMapper{store: store, maxReaders: maxReaders}
}

// MapConversation translates the conversation into backend input items.
// User and system messages become input blocks with their attachments
// expanded; assistant messages are carried as plain text output context.
func (m *ContentMapper) MapConversation(ctx context.Context, messages []ChatMessage) ([]InputItem, error) {
	items := make([]InputItem, 0, len(messages))
	for _, msg := range messages {
		blocks := []ContentBlock{TextBlock(msg.Text)}

		if msg.Role != RoleAssistant && len(msg.Attachments) > 0 {
			attached, err := concurrent.ParallelMap(ctx, msg.Attachments, m.attachmentBlock, m.maxReaders)
			if err != nil {
				return nil, fmt.Errorf("map attachments: %w", err)
			}
			blocks = append(blocks, attached...)
		}

		items = append(items, InputItem{Message: &MessageItem{Role: msg.Role, Blocks: blocks}})
	}
	return items, nil
}

// attachmentBlock maps a single attachment to exactly one content block. A
// failed read degrades to a descriptive text block rather than failing the
// request.
func (m *ContentMapper) attachmentBlock(att UploadedFile) (ContentBlock, error) {
	data, err := m.store.Get(att.StoredFilename)
	if err != nil {
		return TextBlock(fmt.Sprintf(
			"[Attachment %q could not be loaded from storage.]", att.OriginalName)), nil
	}

	mt := classify.NormalizeMIME(att.OriginalName, att.MimeType)

	switch {
	case att.Category == classify.CategoryImage:
		uri := fmt.Sprintf("data:%s;base64,%s", mt, base64.StdEncoding.EncodeToString(data))
		return ImageBlock(uri), nil

	case att.Category == classify.CategoryText || classify.IsTextLike(att.MimeType, att.OriginalName):
		return TextBlock(fmt.Sprintf(
			"<<<FILE %s [%s]>>>\n%s\n<<<END FILE %s>>>",
			att.OriginalName, mt, data, att.OriginalName)), nil

	default:
		return TextBlock(fmt.Sprintf(
			"[Attachment %q (%s, %d bytes) is stored at %s. Its content was not inlined; ask the user how to proceed.]",
			att.OriginalName, mt, len(data), att.PublicURL)), nil
	}
}
