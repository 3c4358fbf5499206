// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry of codec descriptors keyed by CodecType.
type Registry struct {
	codecs map[CodecType]CodecDescriptor

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[CodecType]CodecDescriptor),
		mtx:    &sync.Mutex{},
	}
}

// Register adds desc, replacing any codec of the same type.
func (r *Registry) Register(desc CodecDescriptor) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[desc.Type] = desc
}

func (r *Registry) Get(codec CodecType) (CodecDescriptor, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[codec]
	return d, ok
}

// Make builds a decoder for params.Codec.
func (r *Registry) Make(params CodecParams, opts DecoderOptions) (Decoder, error) {
	desc, ok := r.Get(params.Codec)
	if !ok || desc.New == nil {
		return nil, &Error{
			Kind: KindUnsupported,
			Msg:  fmt.Sprintf("codec %q", params.Codec),
			Err:  ErrUnknownCodec,
		}
	}

	dec, err := desc.New(params, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.ShortName, err)
	}

	return dec, nil
}

// Supported lists the registered codecs ordered by type.
func (r *Registry) Supported() []CodecDescriptor {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	list := make([]CodecDescriptor, 0, len(r.codecs))
	for _, d := range r.codecs {
		list = append(list, d)
	}
	slices.SortFunc(list, func(a, b CodecDescriptor) int {
		return strings.Compare(string(a.Type), string(b.Type))
	})

	return list
}
