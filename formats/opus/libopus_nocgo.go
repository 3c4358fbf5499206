// SPDX-License-Identifier: EPL-2.0

//go:build !cgo

package opus

func openLibopus(uint32, int) (frameDecoder, error) {
	return nil, ErrUnavailable
}
