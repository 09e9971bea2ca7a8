package hbench

import (
	"encoding/json"
	"os"
)

func ToJson(results []AggregateResult) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}

func FromJsonFile(jsonFile string) ([]AggregateResult, error) {
	jsonData, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, err
	}
	return FromJsonByteArray(jsonData)
}

func FromJsonByteArray(jsonData []byte) ([]AggregateResult, error) {
	var results []AggregateResult
	err := json.Unmarshal(jsonData, &results)
	return results, err
}
