package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// OutputData prints data in the selected format
func OutputData(data interface{}) error {
	switch output {
	case "json":
		return outputJSON(data)
	case "yaml":
		return outputYAML(data)
	case "table":
		return outputTable(data)
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func outputYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	return encoder.Encode(data)
}

func outputTable(data interface{}) error {
	// Structs and slices go through a JSON round trip so the table sees
	// plain maps with wire field names.
	generic, err := toGeneric(data)
	if err != nil {
		return err
	}

	switch v := generic.(type) {
	case []interface{}:
		if len(v) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		return printTableFromSlice(v)
	case map[string]interface{}:
		return printTableFromMap(v)
	default:
		return outputJSON(data)
	}
}

func toGeneric(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

func printTableFromSlice(items []interface{}) error {
	first, ok := items[0].(map[string]interface{})
	if !ok {
		return outputJSON(items)
	}

	headers := make([]string, 0, len(first))
	for key := range first {
		headers = append(headers, key)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	defer w.Flush()

	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(w, strings.Join(upper, "\t"))

	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		values := make([]string, len(headers))
		for i, h := range headers {
			values[i] = formatValue(m[h])
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}

	return nil
}

func printTableFromMap(m map[string]interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	defer w.Flush()

	for key, value := range m {
		fmt.Fprintf(w, "%s:\t%v\n", key, formatValue(value))
	}

	return nil
}

func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		if len(val) > 50 {
			return val[:47] + "..."
		}
		return val
	case bool:
		if val {
			return "✓"
		}
		return "✗"
	case float64:
		return fmt.Sprintf("%.0f", val)
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, fmt.Sprintf("%v", item))
		}
		result := "[" + strings.Join(items, ", ") + "]"
		if len(result) > 50 {
			return result[:47] + "..."
		}
		return result
	case map[string]interface{}:
		return fmt.Sprintf("{%d fields}", len(val))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(os.Stdout, "✓ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "✗ Error: %s\n", message)
}
