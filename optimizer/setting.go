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

package optimizer

import (
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/tunelab/errs"
)

// TunerSetting 調參器設定。
type TunerSetting struct {
	// 目標 RTP 與容忍度。收斂條件：|rtp - target_rtp| <= tolerance
	TargetRTP float64 `yaml:"target_rtp"`
	Tolerance float64 `yaml:"tolerance"`

	// 每次候選評估的 spin 數與重複次數（重複取平均以壓制抽樣雜訊）。
	// 注意：spins_per_eval 必須大到讓 95% CI 半寬 < tolerance，
	// 請用 stats.RequiredSpins 事先驗算，不要默默假設。
	SpinsPerEval int `yaml:"spins_per_eval"`
	EvalRepeat   int `yaml:"eval_repeat"`

	// 迭代預算；用罄仍未收斂即 Exhausted（回報 best-seen）。
	MaxAttempts int `yaml:"max_attempts"`

	// 單批評估內的並行機台數（迭代本身恆為串行）。
	Workers int `yaml:"workers"`

	// 步進策略："hill"（隨機符號 ±1）或 "random"（各符號在範圍內重抽）。
	Policy string `yaml:"policy"`

	// random 策略的各符號權重範圍，長度須等於符號數。
	Ranges []WeightRange `yaml:"ranges"`

	// hill 策略的權重下限（預設 1，權重永不歸零）。
	WeightFloor int `yaml:"weight_floor"`

	// 收斂後的確認驗證：以 confirm_mult 倍 spin 數重測一次，
	// 通過才定案，沒通過就繼續搜。<= 1 表示不確認。
	ConfirmMult int `yaml:"confirm_mult"`

	// 是否顯示進度條。
	ShowProgress bool `yaml:"show_progress"`
}

// WeightRange 單一符號的權重搜索範圍（閉區間）。
type WeightRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// LoadTunerSetting 從檔案系統載入並驗證調參設定。
func LoadTunerSetting(fsys fs.FS, name string) (*TunerSetting, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "read tuner setting")
	}
	return GetTunerSettingByYAML(raw)
}

// GetTunerSettingByYAML 解析 yaml 並驗證調參設定。
func GetTunerSettingByYAML(data []byte) (*TunerSetting, error) {
	ts := &TunerSetting{}
	if err := yaml.Unmarshal(data, ts); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := ts.validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

func (ts *TunerSetting) validate() error {
	if ts.TargetRTP <= 0 {
		return errs.Warnf("target_rtp must be positive, got %f", ts.TargetRTP)
	}
	if ts.Tolerance <= 0 {
		return errs.Warnf("tolerance must be positive, got %f", ts.Tolerance)
	}
	if ts.SpinsPerEval < 1 {
		return errs.Warnf("spins_per_eval must be at least 1, got %d", ts.SpinsPerEval)
	}
	if ts.EvalRepeat < 1 {
		ts.EvalRepeat = 1
	}
	if ts.MaxAttempts < 1 {
		return errs.Warnf("max_attempts must be at least 1, got %d", ts.MaxAttempts)
	}
	if ts.Workers < 1 {
		ts.Workers = 1
	}
	if ts.WeightFloor < 1 {
		ts.WeightFloor = 1
	}
	switch ts.Policy {
	case "", "hill":
		ts.Policy = "hill"
	case "random":
		if len(ts.Ranges) == 0 {
			return errs.Warnf("policy random requires ranges")
		}
		for i, r := range ts.Ranges {
			if r.Min < 1 || r.Max < r.Min {
				return errs.Warnf("ranges[%d] invalid: min %d max %d", i, r.Min, r.Max)
			}
		}
	default:
		return errs.Warnf("policy %s not supported", ts.Policy)
	}
	return nil
}
