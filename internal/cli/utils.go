package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// promptWithRetry prompts the user for input and retries on invalid input.
// It gives up with io.EOF once the input is exhausted.
func promptWithRetry(reader *bufio.Reader, out io.Writer, prompt string, validator func(string) (string, error)) (string, error) {
	for {
		fmt.Fprint(out, prompt)
		input, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return "", readErr
		}
		input = strings.TrimSpace(input)

		if errors.Is(readErr, io.EOF) && input == "" {
			fmt.Fprintln(out)
			return "", io.EOF
		}

		result, err := validator(input)
		if err == nil {
			return result, nil
		}

		fmt.Fprintf(out, "%s\n\n", FormatError("❌ "+err.Error()))
		if errors.Is(readErr, io.EOF) {
			return "", io.EOF
		}
	}
}

// promptYesNo prompts for yes/no input with retry
func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	result, err := promptWithRetry(reader, out, prompt, validateYesNo)
	if err != nil {
		return false, err
	}
	return result == "y" || result == "yes", nil
}

// promptOptional prompts for optional input with default value
func promptOptional(reader *bufio.Reader, out io.Writer, prompt string, defaultValue string) (string, error) {
	return promptWithRetry(reader, out, prompt, func(input string) (string, error) {
		if input == "" {
			return defaultValue, nil
		}
		return input, nil
	})
}
