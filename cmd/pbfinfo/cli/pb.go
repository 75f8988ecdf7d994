// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli holds small helpers shared by the pbfinfo subcommands.
package cli

import (
	"fmt"
	"io"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressBar wraps an *os.File with a ProgressBar that tracks bytes read
// against the file's total size. Closing it also clears the terminal line
// the bar was drawn on.
type progressBar struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

// WrapInputFile returns f wrapped with a progress bar, unless f is stdin
// (whose size isn't known ahead of time).
func WrapInputFile(f *os.File) (io.ReadCloser, error) {
	if f == os.Stdin {
		return os.Stdin, nil
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := pb.New(int(fi.Size())).SetUnits(pb.U_BYTES_DEC).SetWidth(79)
	bar.Output = os.Stderr
	bar.Start()

	return progressBar{r: bar.NewProxyReader(f), bar: bar}, nil
}

func (p progressBar) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func (p progressBar) Close() error {
	p.bar.Output = nil
	p.bar.NotPrint = true
	p.bar.Finish()

	fmt.Fprint(os.Stderr, "\033[2K\r")

	return p.r.Close()
}
