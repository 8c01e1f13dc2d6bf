// Copyright 2025 Zintix Labs
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

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/zintix-labs/tunelab"
	"github.com/zintix-labs/tunelab/configs"
	"github.com/zintix-labs/tunelab/sdk/core"
)

const initBalance = 200

// 內嵌 Tigrinho 示範設定的互動模式：ENTER 轉一輪，q 離場。
func main() {
	m, err := tunelab.NewMachineFromFS(configs.FS, "tigrinho_3x3.yaml", core.Default())
	if err != nil {
		log.Fatal(err)
	}
	final, err := tunelab.Play(m, os.Stdin, os.Stdout, initBalance)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Final balance: $%d\n", final)
}
