package device

import (
	"context"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

const streamProtocolHLS = "hls"

// videoStream hands out a camera stream URL. It is write-only.
type videoStream struct {
	stateCapability
}

func newVideoStream(entry *Entry, state *host.State) Capability {
	c := &videoStream{stateCapability: newStateCapability(entry, state, schema.CapabilityVideoStream, schema.VideoGetStream)}
	c.actionOnly()
	return c
}

func supportsVideoStream(_ *Entry, st *host.State) bool {
	return st.Domain() == domainCamera && st.HasFeature(cameraSupportStream)
}

func (c *videoStream) Parameters() any {
	return schema.VideoStreamCapabilityParameters{Protocols: []string{streamProtocolHLS}}
}

func (c *videoStream) Value(_ context.Context) (any, error) { return nil, nil }

func (c *videoStream) Set(_ context.Context, _ schema.CapabilityInstanceActionState) (any, error) {
	url := c.state.AttrString(attrStreamURL)
	if host.IsNoValue(url) {
		return nil, schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"%s does not support play stream service", c.entityID())
	}
	return schema.GetStreamResultValue{StreamURL: url, Protocol: streamProtocolHLS}, nil
}
