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

package spec

import (
	"encoding/json"
	"io/fs"

	"github.com/zintix-labs/tunelab/errs"
	"gopkg.in/yaml.v3"
)

// GetGameSettingByYAML 讀取 YAML 設定、初始化並執行基本檢查後回傳。
func GetGameSettingByYAML(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	if err := yaml.Unmarshal(data, gs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal yaml")
	}
	if err := gs.Init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialize err")
	}
	return gs, nil
}

// GetGameSettingByJSON 讀取 JSON 設定、初始化並執行基本檢查後回傳。
func GetGameSettingByJSON(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal json bytes")
	}
	if err := gs.Init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialize err")
	}
	return gs, nil
}

// LoadGameSetting 從 fs.FS 取出設定檔並解析（go:embed 或 os.DirFS 皆可注入）。
func LoadGameSetting(fsys fs.FS, name string) (*GameSetting, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "read config "+name)
	}
	return GetGameSettingByYAML(raw)
}
