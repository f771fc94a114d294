package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// lineUI is the line-buffered fallback used when raw mode is unavailable.
// It offers the same options as the full-screen menus and drives the same
// Selection and FieldEditor transitions.
type lineUI struct {
	e  *Engine
	in *bufio.Reader
}

func (e *Engine) lineUI() *lineUI {
	if e.lines == nil {
		e.lines = bufio.NewReader(e.In)
	}
	return &lineUI{e: e, in: e.lines}
}

// readLine prompts and returns the line without its terminator. Spaces are
// kept so a lone space can clear a field. End of input cancels.
func (u *lineUI) readLine(prompt string) (string, error) {
	u.e.printf("%s", prompt)
	line, err := u.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (u *lineUI) mainMenu() (MainItem, error) {
	for {
		u.e.printf("\nAvailable Actions:\n")
		for i, item := range mainItems {
			u.e.printf("%d. %s\n", i+1, item)
		}

		input, err := u.readLine("\nPlease select an option (1-3): ")
		if err != nil {
			return 0, err
		}
		switch strings.TrimSpace(input) {
		case "1":
			return MainExecuteDefault, nil
		case "2":
			return MainSelectConfig, nil
		case "3":
			return MainExit, nil
		}
		u.e.printf("Invalid option. Please select 1-3.\n")
	}
}

func (u *lineUI) printSelector(sel *Selection) {
	u.e.printf("\nAvailable Configurations:\n")
	if sel.PageCount() > 1 {
		u.e.printf("%s\n", pageInfo(sel.Page(), sel.PageCount()))
		u.e.printf("使用 'n' 下一页, 'p' 上一页, 'r' 官方配置, 'q' 退出\n")
	}
	u.e.printf("\n[r] official\n   %s\n\n", officialDescription)

	for i, p := range sel.PageProfiles() {
		u.e.printf("[%d] %s\n", i+1, p.AliasName)
		for _, line := range profileDetails(p, "   ") {
			u.e.printf("%s\n", line)
		}
		u.e.printf("\n")
	}
	u.e.printf("[q] Exit\n")

	n := len(sel.PageProfiles())
	if sel.PageCount() > 1 {
		u.e.printf("\n页面导航: [n]下页, [p]上页 | 配置选择: [1-%d] | [e1-e%d]编辑 | [r]官方 | [q]退出\n", n, n)
	} else {
		u.e.printf("\n配置选择: [1-%d] | [e1-e%d]编辑 | [r]官方 | [q]退出\n", n, n)
	}
}

// selectMenu reads choices until one produces an action
func (u *lineUI) selectMenu(sel *Selection) (Action, error) {
	for {
		u.printSelector(sel)
		input, err := u.readLine("\n请输入选择: ")
		if errors.Is(err, ErrCancelled) {
			return sel.Apply(KeyEscape), nil
		}
		if err != nil {
			return Action{}, err
		}

		choice := strings.ToLower(strings.TrimSpace(input))
		switch choice {
		case "r":
			return sel.Apply(KeyOfficial), nil
		case "q":
			return sel.Apply(KeyExit), nil
		case "n":
			if sel.Page() < sel.PageCount()-1 {
				sel.Apply(KeyNextPage)
				continue
			}
		case "p":
			if sel.Page() > 0 {
				sel.Apply(KeyPrevPage)
				continue
			}
		default:
			if strings.HasPrefix(choice, "e") {
				if d, err := strconv.Atoi(choice[1:]); err == nil && sel.Point(d) {
					return sel.Apply(KeyEdit), nil
				}
				break
			}
			if d, err := strconv.Atoi(choice); err == nil {
				if action, ok := sel.Digit(d); ok {
					return action, nil
				}
			}
		}
		u.e.printf("无效选择，请重新输入\n")
	}
}

func (u *lineUI) printEditor(editor *FieldEditor) {
	u.e.printf("\n%s", renderEditorMenu(editor, u.e.Caps))
}

// editor runs the field editor loop. It returns ErrReturnToMenu on Q and
// nil once the profile is saved or the overwrite is declined.
func (u *lineUI) editor(editor *FieldEditor, store ProfileStore) error {
	for {
		u.printEditor(editor)
		u.e.printf("\n提示: 可使用大小写字母\n")
		input, err := u.readLine("请选择要编辑的字段 (1-9, A-B), 或输入 S 保存, Q 返回上一级菜单: ")
		if errors.Is(err, ErrCancelled) {
			u.e.printf("\n返回上一级菜单\n")
			return ErrReturnToMenu
		}
		if err != nil {
			return err
		}

		choice := strings.TrimSpace(input)
		switch choice {
		case "s", "S":
			return u.save(editor, store)
		case "q", "Q":
			u.e.printf("\n返回上一级菜单\n")
			return ErrReturnToMenu
		}

		f, ok := ParseField(choice)
		if !ok {
			u.e.printf("无效选择，请重试\n")
			continue
		}
		if err := u.editField(editor, f); err != nil {
			return err
		}
	}
}

func (u *lineUI) editField(editor *FieldEditor, f Field) error {
	u.e.printf("\n编辑%s:\n", f.Name())
	u.e.printf("当前值: %s\n", editor.Value(f))
	input, err := u.readLine(fmt.Sprintf("新值 (%s): ", f.Hint()))
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	message, err := editor.Apply(f, input)
	if err != nil {
		u.e.printf("%s\n", err)
		return nil
	}
	if message != "" {
		u.e.printf("%s\n", message)
	}
	return nil
}

func (u *lineUI) save(editor *FieldEditor, store ProfileStore) error {
	if editor.Collides(store) {
		u.e.printf("\n别名冲突!\n")
		u.e.printf("配置 '%s' 已存在\n", editor.Profile.AliasName)
		input, err := u.readLine("是否覆盖现有配置? (y/N): ")
		if err != nil && !errors.Is(err, ErrCancelled) {
			return err
		}
		answer := strings.ToLower(strings.TrimSpace(input))
		if answer != "y" && answer != "yes" {
			u.e.printf("编辑已取消\n")
			return nil
		}
	}

	if err := editor.Save(store); err != nil {
		return err
	}
	u.e.printf("\n配置已成功保存!\n")
	return nil
}
